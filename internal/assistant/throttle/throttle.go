package throttle

import (
	"sync"
	"time"

	"stayhost/pkg/logger"
)

// Scope tells which counter rejected a request.
type Scope string

const (
	ScopeNone   Scope = ""
	ScopeCaller Scope = "caller"
	ScopeDaily  Scope = "daily"
)

// DayKeyLayout gives one key per calendar day ("Tue Oct 15 2026").
const DayKeyLayout = "Mon Jan 02 2006"

type Clock func() time.Time

// Window is the fixed window of a single caller.
type Window struct {
	Count   int
	ResetAt time.Time
}

// DailyCounter counts accepted requests for one calendar day.
type DailyCounter struct {
	Count  int
	DayKey string
}

type Decision struct {
	Allowed bool
	Scope   Scope
	// RetryAfter is how long until the rejecting counter resets.
	RetryAfter time.Duration
	// Remaining is DailyLimit minus today's accepted requests.
	Remaining int
}

// MinutesLeft rounds RetryAfter up to whole minutes.
func (d Decision) MinutesLeft() int {
	return CeilMinutes(d.RetryAfter)
}

type Config struct {
	CallerLimit  int
	CallerWindow time.Duration
	DailyLimit   int
	Location     *time.Location

	// SweepInterval starts a background eviction loop when positive.
	SweepInterval time.Duration
	// EvictAfter is how long past its reset a window is kept before eviction.
	EvictAfter time.Duration

	Clock Clock
}

// Throttle holds the per-caller windows and the process-wide daily counter.
// Counters live in this process only: with several replicas each enforces
// its own limits.
type Throttle struct {
	mu      sync.Mutex
	windows map[string]*Window
	daily   DailyCounter

	cfg Config
	now Clock
	log *logger.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func New(cfg Config, log *logger.Logger) *Throttle {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	t := &Throttle{
		windows: make(map[string]*Window),
		cfg:     cfg,
		now:     now,
		log:     log,
		stopCh:  make(chan struct{}),
	}

	if cfg.SweepInterval > 0 {
		t.wg.Add(1)
		go t.sweepLoop()
	}

	return t
}

// Check runs the per-caller window first and the daily counter second.
// A request rejected by its caller window is not counted against the day.
func (t *Throttle) Check(callerID string) Decision {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollDay(now)

	w, ok := t.windows[callerID]
	if !ok || !now.Before(w.ResetAt) {
		w = &Window{Count: 1, ResetAt: now.Add(t.cfg.CallerWindow)}
		t.windows[callerID] = w
	} else {
		w.Count++
		if w.Count > t.cfg.CallerLimit {
			return Decision{
				Scope:      ScopeCaller,
				RetryAfter: w.ResetAt.Sub(now),
				Remaining:  t.remaining(),
			}
		}
	}

	if t.daily.Count >= t.cfg.DailyLimit {
		return Decision{
			Scope:      ScopeDaily,
			RetryAfter: t.untilNextDay(now),
			Remaining:  0,
		}
	}
	t.daily.Count++

	return Decision{Allowed: true, Remaining: t.remaining()}
}

// Remaining reports how many requests are left today.
func (t *Throttle) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollDay(t.now())
	return t.remaining()
}

// Window returns a copy of the caller's window.
func (t *Throttle) Window(callerID string) (Window, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, ok := t.windows[callerID]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

func (t *Throttle) Daily() DailyCounter {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.daily
}

func (t *Throttle) Callers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.windows)
}

// Reset drops every window and the daily counter.
func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.windows = make(map[string]*Window)
	t.daily = DailyCounter{}
}

// Sweep evicts windows whose reset passed more than EvictAfter ago and
// returns how many were removed. An evicted caller starts a fresh window on
// its next request, exactly as an expired one would.
func (t *Throttle) Sweep() int {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	evicted := 0
	for caller, w := range t.windows {
		if now.Sub(w.ResetAt) >= t.cfg.EvictAfter {
			delete(t.windows, caller)
			evicted++
		}
	}
	return evicted
}

// Stop ends the sweep loop. It is safe to call more than once.
func (t *Throttle) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
	})
	t.wg.Wait()
}

func (t *Throttle) sweepLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := t.Sweep(); n > 0 && t.log != nil {
				t.log.Debug("Evicted stale throttle windows", "evicted", n)
			}
		case <-t.stopCh:
			return
		}
	}
}

// rollDay resets the daily counter when the calendar day changed. Callers hold mu.
func (t *Throttle) rollDay(now time.Time) {
	key := DayKey(now, t.cfg.Location)
	if t.daily.DayKey != key {
		t.daily = DailyCounter{Count: 0, DayKey: key}
	}
}

func (t *Throttle) remaining() int {
	return max(0, t.cfg.DailyLimit-t.daily.Count)
}

func (t *Throttle) untilNextDay(now time.Time) time.Duration {
	local := now.In(t.cfg.Location)
	y, m, d := local.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.cfg.Location).Sub(now)
}

func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayKeyLayout)
}

// CeilMinutes rounds a positive duration up to whole minutes.
func CeilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Minute - 1) / time.Minute)
}
