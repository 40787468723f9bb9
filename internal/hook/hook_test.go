package hook

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/config"
)

type countingEngine struct {
	mu      sync.Mutex
	updates int
	forces  int
}

func (e *countingEngine) Update() {
	e.mu.Lock()
	e.updates++
	e.mu.Unlock()
}

func (e *countingEngine) ForceRefresh() {
	e.mu.Lock()
	e.forces++
	e.mu.Unlock()
}

func (e *countingEngine) counts() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updates, e.forces
}

func newDispatcher(t *testing.T, buffer int) (*Dispatcher, *countingEngine, *config.Manager) {
	t.Helper()
	eng := &countingEngine{}
	cfg := config.NewManager(filepath.Join(t.TempDir(), config.FileName), nil)
	return NewDispatcher(eng, cfg, nil, buffer), eng, cfg
}

func TestBurstCoalescesIntoOneUpdate(t *testing.T) {
	d, eng, _ := newDispatcher(t, 16)
	for i := 0; i < 5; i++ {
		d.Send(Tick())
	}
	d.Send(CellAttached())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for d.Updates() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if updates, forces := eng.counts(); updates != 1 || forces != 0 {
		t.Fatalf("expected 1 update and no forced refresh, got %d/%d", updates, forces)
	}
}

func TestTimeMenusForceRefresh(t *testing.T) {
	for _, menu := range []string{MenuSleepWait, MenuMap} {
		d, eng, _ := newDispatcher(t, 4)
		d.handle([]Signal{MenuClosed(menu)})
		if updates, forces := eng.counts(); updates != 1 || forces != 1 {
			t.Fatalf("%s: expected forced update, got %d/%d", menu, updates, forces)
		}
	}
}

func TestOtherMenusIgnored(t *testing.T) {
	d, eng, _ := newDispatcher(t, 4)
	d.handle([]Signal{MenuClosed("InventoryMenu"), MenuClosed("Journal Menu")})
	if updates, _ := eng.counts(); updates != 0 {
		t.Fatalf("expected no update for menus that do not pass time")
	}
}

func TestCellAttachDoesNotForce(t *testing.T) {
	d, eng, _ := newDispatcher(t, 4)
	d.handle([]Signal{CellAttached()})
	if updates, forces := eng.counts(); updates != 1 || forces != 0 {
		t.Fatalf("expected a plain update, got %d/%d", updates, forces)
	}
}

func TestDisabledOnlyTicksReachEngine(t *testing.T) {
	d, eng, cfg := newDispatcher(t, 4)
	cfg.Update(func(c *config.Config) { c.Enabled = false })
	d.handle([]Signal{MenuClosed(MenuSleepWait), CellAttached()})
	if updates, forces := eng.counts(); updates != 0 || forces != 0 {
		t.Fatalf("expected menu and cell signals ignored while disabled, got %d/%d", updates, forces)
	}
	d.handle([]Signal{Tick()})
	if updates, _ := eng.counts(); updates != 1 {
		t.Fatalf("expected the tick to update so the engine can restore")
	}
}

func TestReapplyAndGameLoadForce(t *testing.T) {
	d, eng, _ := newDispatcher(t, 4)
	d.handle([]Signal{Reapply(), GameLoaded(), Tick()})
	if updates, forces := eng.counts(); updates != 1 || forces != 2 {
		t.Fatalf("expected one update with two forces, got %d/%d", updates, forces)
	}
}

func TestSendNeverBlocks(t *testing.T) {
	d, eng, _ := newDispatcher(t, 1)
	if !d.Send(Tick()) {
		t.Fatalf("expected first signal queued")
	}
	if d.Send(Reapply()) {
		t.Fatalf("expected second signal dropped")
	}
	if _, forces := eng.counts(); forces != 1 {
		t.Fatalf("a dropped reapply must still request a refresh")
	}
	if d.Dropped() != 1 {
		t.Fatalf("expected 1 dropped signal, got %d", d.Dropped())
	}
}

func TestTickerStopsWithContext(t *testing.T) {
	d, _, _ := newDispatcher(t, 256)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	Ticker(ctx, 5*time.Millisecond, d)
	if len(d.ch) == 0 {
		t.Fatalf("expected ticks to be queued")
	}
}
