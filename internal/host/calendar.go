package host

import (
	"fmt"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/store"
)

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Date is a point on the in-game calendar. Month is 0-based, Day 1-based.
type Date struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Day   int     `json:"day"`
	Hour  float64 `json:"hour"`
}

func (d Date) String() string {
	h := int(d.Hour)
	m := int((d.Hour - float64(h)) * 60)
	return fmt.Sprintf("%d:%02d, %s of %s, 4E %d", h, m, ordinal(d.Day), engine.MonthName(d.Month), d.Year)
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// Calendar advances game time. Not safe for concurrent use; World guards it.
type Calendar struct {
	date Date
}

func NewCalendar(start store.CalendarStart) *Calendar {
	d := Date{Year: start.Year, Month: start.Month, Day: start.Day, Hour: start.Hour}
	if d.Month < 0 || d.Month > 11 {
		d.Month = 0
	}
	if d.Day < 1 {
		d.Day = 1
	}
	if d.Day > daysInMonth[d.Month] {
		d.Day = daysInMonth[d.Month]
	}
	if d.Hour < 0 || d.Hour >= 24 {
		d.Hour = 0
	}
	return &Calendar{date: d}
}

func (c *Calendar) Date() Date { return c.date }
func (c *Calendar) Month() int { return c.date.Month }

// Advance moves time forward; negative durations are ignored.
func (c *Calendar) Advance(hours float64) {
	if hours <= 0 {
		return
	}
	c.date.Hour += hours
	for c.date.Hour >= 24 {
		c.date.Hour -= 24
		c.date.Day++
		if c.date.Day > daysInMonth[c.date.Month] {
			c.date.Day = 1
			c.date.Month++
			if c.date.Month == 12 {
				c.date.Month = 0
				c.date.Year++
			}
		}
	}
}

// AdvanceMonths jumps to the first day of the month n months ahead, keeping the hour.
func (c *Calendar) AdvanceMonths(n int) {
	if n <= 0 {
		return
	}
	total := c.date.Month + n
	c.date.Year += total / 12
	c.date.Month = total % 12
	c.date.Day = 1
}
