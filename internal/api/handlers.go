package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/app"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/host"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/weather"
)

// Handler contains all HTTP handlers
type Handler struct {
	app     *app.App
	version string
}

func NewHandler(a *app.App, version string) *Handler {
	return &Handler{app: a, version: version}
}

// StatusResponse is the engine snapshot plus what the simulated game shows right now.
type StatusResponse struct {
	weather.Status
	Date         string              `json:"date"`
	Player       host.Player         `json:"player"`
	Weather      string              `json:"weather,omitempty"`
	WeatherClass engine.WeatherClass `json:"weather_class"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "seasonweather",
		"version": h.version,
	})
}

func (h *Handler) status() StatusResponse {
	return StatusResponse{
		Status:       h.app.Weather.Snapshot(),
		Date:         h.app.World.Date().String(),
		Player:       h.app.World.Player(),
		Weather:      h.app.World.CurrentWeather(),
		WeatherClass: h.app.World.CurrentWeatherClass(),
	}
}

func (h *Handler) GetStatus(c *fiber.Ctx) error {
	return ok(c, h.status())
}

// Refresh forces a re-apply and returns the resulting status.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	h.app.Reapply()
	return ok(c, h.status())
}

// ListRegions supports ?worldspace=<editor id> and ?managed=true.
func (h *Handler) ListRegions(c *fiber.Ctx) error {
	regions := h.app.Regions(c.Query("worldspace"))
	if c.QueryBool("managed", false) {
		filtered := regions[:0]
		for _, r := range regions {
			if r.Managed {
				filtered = append(filtered, r)
			}
		}
		regions = filtered
	}
	if regions == nil {
		regions = []app.RegionView{}
	}
	return ok(c, regions)
}

func (h *Handler) GetRegion(c *fiber.Ctx) error {
	region, found := h.app.FindRegion(c.Params("id"))
	if !found {
		return fiber.NewError(fiber.StatusNotFound, "Region not found")
	}
	return ok(c, region)
}

type overrideRequest struct {
	Season string `json:"season"`
}

func (h *Handler) SetOverride(c *fiber.Ctx) error {
	var req overrideRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	season, valid := engine.ParseSeason(req.Season)
	if !valid {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown season; use spring, summer, fall or winter")
	}
	h.app.SetOverride(season)
	return ok(c, h.status())
}

func (h *Handler) ClearOverride(c *fiber.Ctx) error {
	h.app.SetOverride("")
	return ok(c, h.status())
}

func (h *Handler) GetConfig(c *fiber.Ctx) error {
	return ok(c, h.configView())
}

func (h *Handler) UpdateConfig(c *fiber.Ctx) error {
	var patch configPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := patch.validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	h.app.UpdateConfig(patch.apply)
	return ok(c, h.configView())
}

func (h *Handler) SaveConfig(c *fiber.Ctx) error {
	if err := h.app.SaveConfig(); err != nil {
		h.app.Log.Error("api: save config", "err", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save configuration")
	}
	return ok(c, h.configView())
}

func (h *Handler) LoadConfig(c *fiber.Ctx) error {
	if err := h.app.ReloadConfig(); err != nil {
		h.app.Log.Error("api: load config", "err", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load configuration")
	}
	return ok(c, h.configView())
}

func (h *Handler) ResetConfig(c *fiber.Ctx) error {
	h.app.ResetConfig()
	return ok(c, h.configView())
}

func (h *Handler) configView() configView {
	return newConfigView(h.app.Config.Get(), h.app.Config.Path(), h.app.Warnings())
}
