package game

import (
	"testing"
)

// scriptedRand replays fixed draws. When a script runs out it returns
// 'fallback' for Float64 and 0 for Intn.
type scriptedRand struct {
	floats   []float64
	ints     []int
	fallback float64
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return r.fallback
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

// Template indexes in the default catalog.
const (
	tplGoldRush = iota
	tplShootingStar
	tplFlowerField
	tplRainbowVisitor
)

// shootingStarScript selects shooting_star and spawns its targets at
// (100,150), (400,350) and (700,550).
func shootingStarScript() []int {
	return []int{tplShootingStar, 0, 0, 300, 200, 600, 400}
}

func newTestMachine(ints ...int) *EventMachine {
	return NewEventMachine(DefaultBalance().Events, &scriptedRand{ints: ints})
}

// toAlert runs the idle countdown (120 s with a zero draw) to the alert.
func toAlert(t *testing.T, m *EventMachine) {
	t.Helper()
	if m.NextInterval() != 120 {
		t.Fatalf("next interval = %v, want 120", m.NextInterval())
	}
	m.Update(119)
	if m.Phase() != PhaseIdle {
		t.Fatalf("phase = %s before the interval elapsed", m.Phase())
	}
	m.Update(1)
	if m.Phase() != PhaseAlert {
		t.Fatalf("phase = %s, want alert", m.Phase())
	}
}

func TestEventAlertGrace(t *testing.T) {
	m := newTestMachine(tplGoldRush)
	if m.Acknowledge() {
		t.Fatal("acknowledged while idle")
	}
	toAlert(t, m)

	m.Update(5)
	if m.Phase() != PhaseAlert {
		t.Fatalf("started at exactly the grace period, phase = %s", m.Phase())
	}
	m.Update(0.1)
	if m.Phase() != PhaseActive {
		t.Fatalf("phase = %s after the grace period, want active", m.Phase())
	}
	if m.Current().Template.Kind != EventGoldRush {
		t.Errorf("template = %s, want gold_rush", m.Current().Template.Kind)
	}
}

func TestShootingStarScenario(t *testing.T) {
	m := newTestMachine(shootingStarScript()...)
	toAlert(t, m)
	if !m.Acknowledge() {
		t.Fatal("acknowledge failed")
	}

	ev := m.Current()
	if ev == nil || ev.Template.Kind != EventShootingStar || len(ev.Targets) != 3 {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Targets[1].Position != (Point{X: 400, Y: 350}) {
		t.Fatalf("target 1 at %+v", ev.Targets[1].Position)
	}

	for _, pt := range []Point{{100, 150}, {400, 350}, {700, 550}} {
		if !m.HandleClick(pt) {
			t.Fatalf("click at %+v missed", pt)
		}
	}
	if m.HandleClick(Point{100, 150}) {
		t.Error("collected a dead target")
	}
	if ev.Collected != 3 || !ev.Success || ev.Progress() != 1 {
		t.Fatalf("collected = %d, success = %v", ev.Collected, ev.Success)
	}

	// Fully collected events stay active until their timer runs out.
	if out := m.Update(10); out != nil || m.Phase() != PhaseActive {
		t.Fatalf("resolved early: %+v, phase %s", out, m.Phase())
	}
	out := m.Update(5)
	if out == nil || !out.Success || out.Kind != EventShootingStar {
		t.Fatalf("outcome = %+v, want shooting_star success", out)
	}

	gains := DefaultBalance().Affection.Gains
	reward := out.Reward(2, gains)
	if reward.Points != 100 || reward.Affection != 2.0 {
		t.Errorf("reward = %+v, want 100 points and 2.0 affection", reward)
	}
	if m.Completed() != 1 || m.Phase() != PhaseIdle || m.Current() != nil {
		t.Errorf("completed = %d, phase = %s", m.Completed(), m.Phase())
	}
}

func TestEventFailure(t *testing.T) {
	m := newTestMachine(tplFlowerField)
	toAlert(t, m)
	m.Acknowledge()

	m.HandleClick(Point{100, 150})
	out := m.Update(20)
	if out == nil || out.Success {
		t.Fatalf("outcome = %+v, want failure", out)
	}
	if r := out.Reward(10, DefaultBalance().Affection.Gains); r != (EventReward{}) {
		t.Errorf("failure paid %+v", r)
	}
	if m.Completed() != 0 {
		t.Errorf("completed = %d, want 0", m.Completed())
	}
}

func TestGoldRush(t *testing.T) {
	m := newTestMachine(tplGoldRush)
	if m.ClickMultiplier() != 1 {
		t.Fatalf("idle multiplier = %d", m.ClickMultiplier())
	}
	toAlert(t, m)
	m.Acknowledge()

	if m.ClickMultiplier() != 5 {
		t.Errorf("gold rush multiplier = %d, want 5", m.ClickMultiplier())
	}
	if m.HandleClick(Point{100, 150}) {
		t.Error("gold rush consumed a click")
	}
	out := m.Update(10)
	if out == nil || !out.Success {
		t.Fatalf("outcome = %+v, want success", out)
	}
	if r := out.Reward(3, DefaultBalance().Affection.Gains); r.Points != 0 || r.Affection != 2.0 {
		t.Errorf("reward = %+v, want 0 points and 2.0 affection", r)
	}
	if m.ClickMultiplier() != 1 {
		t.Errorf("multiplier after resolution = %d", m.ClickMultiplier())
	}
}

func TestRainbowVisitorBonus(t *testing.T) {
	m := newTestMachine(tplRainbowVisitor)
	toAlert(t, m)
	m.Acknowledge()
	m.HandleClick(m.Current().Targets[0].Position)

	out := m.Update(10)
	if out == nil || !out.Success {
		t.Fatalf("outcome = %+v", out)
	}
	if r := out.Reward(1, DefaultBalance().Affection.Gains); r.Affection != 5.0 {
		t.Errorf("affection = %v, want 5.0", r.Affection)
	}
}

func TestHitRadiusIsStrict(t *testing.T) {
	m := newTestMachine(shootingStarScript()...)
	toAlert(t, m)
	m.Acknowledge()

	if m.HandleClick(Point{130, 150}) {
		t.Error("click exactly on the radius counted as a hit")
	}
	if !m.HandleClick(Point{129, 150}) {
		t.Error("click inside the radius missed")
	}
}

func TestTargetsInsideSpawnArea(t *testing.T) {
	cfg := DefaultBalance().Events
	m := NewEventMachine(cfg, NewRand(42))
	for i := 0; i < 50; i++ {
		m.Update(cfg.MaxInterval)
		m.Acknowledge()
		ev := m.Current()
		if ev == nil {
			t.Fatalf("round %d: no active event", i)
		}
		for _, tg := range ev.Targets {
			p := tg.Position
			if p.X < 100 || p.X > 800 || p.Y < 150 || p.Y > 550 || p.X != float64(int(p.X)) {
				t.Fatalf("target outside spawn area: %+v", p)
			}
		}
		m.Update(ev.Template.Duration)
		if m.Phase() != PhaseIdle {
			t.Fatalf("round %d: phase %s after duration", i, m.Phase())
		}
		if iv := m.NextInterval(); iv < 120 || iv > 300 {
			t.Fatalf("interval %v outside [120, 300]", iv)
		}
	}
}
