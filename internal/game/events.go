/*
Package game
File: events.go
Description:
    The Random Event State Machine.

    Cycle: Idle (count down to the next event) -> Alert (announced, waiting for
    the player or the grace period) -> Active (one template running) -> back to
    Idle with a freshly drawn interval.

    Resolution happens only when an active event's duration runs out. A fully
    collected event stays Active, showing its completed progress, until then.
*/

package game

// EventPhase is the current state of the event machine.
type EventPhase string

const (
	PhaseIdle   EventPhase = "idle"
	PhaseAlert  EventPhase = "alert"
	PhaseActive EventPhase = "active"
)

// Target is a clickable object spawned by a collect-type event.
type Target struct {
	Position Point `json:"position"`
	Alive    bool  `json:"alive"`
}

// ActiveEvent is one running instance of a template.
type ActiveEvent struct {
	Template  EventTemplate
	Elapsed   float64
	Collected int
	Success   bool // set as soon as the last target is collected
	Targets   []Target
}

// TimeRemaining returns the seconds left before the event resolves.
func (e *ActiveEvent) TimeRemaining() float64 {
	if r := e.Template.Duration - e.Elapsed; r > 0 {
		return r
	}
	return 0
}

// Progress returns the collected fraction (0 for timed events).
func (e *ActiveEvent) Progress() float64 {
	if e.Template.Required <= 0 {
		return 0
	}
	if e.Collected >= e.Template.Required {
		return 1
	}
	return float64(e.Collected) / float64(e.Template.Required)
}

// EventOutcome is produced once per resolved event.
type EventOutcome struct {
	Kind    EventKind `json:"kind"`
	Name    string    `json:"name"`
	Success bool      `json:"success"`

	template EventTemplate
}

// EventReward is what a resolved event pays out.
type EventReward struct {
	Points    int64   `json:"points"`
	Affection float64 `json:"affection"`
}

// Reward computes the payout of an outcome. Failures pay nothing.
func (o EventOutcome) Reward(clickPower int, gains AffectionGains) EventReward {
	if !o.Success {
		return EventReward{}
	}
	return EventReward{
		Points:    int64(clickPower) * o.template.PointsPerClickPower,
		Affection: gains.EventSuccess + o.template.BonusAffection,
	}
}

// EventMachine drives the idle/alert/active cycle.
type EventMachine struct {
	cfg EventConfig
	rng Rand

	phase        EventPhase
	timer        float64 // idle countdown progress
	nextInterval float64
	alertTimer   float64
	current      *ActiveEvent
	completed    int // lifetime successful events, persisted
}

// NewEventMachine starts idle with a random first interval.
func NewEventMachine(cfg EventConfig, rng Rand) *EventMachine {
	m := &EventMachine{cfg: cfg, rng: rng, phase: PhaseIdle}
	m.nextInterval = m.randomInterval()
	return m
}

func (m *EventMachine) randomInterval() float64 {
	return uniform(m.rng, m.cfg.MinInterval, m.cfg.MaxInterval)
}

// Phase returns the current machine state.
func (m *EventMachine) Phase() EventPhase { return m.phase }

// Current returns the running event, or nil outside the active phase.
func (m *EventMachine) Current() *ActiveEvent { return m.current }

// NextInterval returns the idle duration before the next alert.
func (m *EventMachine) NextInterval() float64 { return m.nextInterval }

// IdleTimer returns the idle time accumulated so far.
func (m *EventMachine) IdleTimer() float64 { return m.timer }

// AlertTimer returns how long the current alert has been shown.
func (m *EventMachine) AlertTimer() float64 { return m.alertTimer }

// Completed returns the lifetime count of successful events.
func (m *EventMachine) Completed() int { return m.completed }

// SetCompleted restores the lifetime counter from a save.
func (m *EventMachine) SetCompleted(n int) {
	if n < 0 {
		n = 0
	}
	m.completed = n
}

// Update advances the machine by dt seconds.
// It returns an outcome only on the tick an active event resolves.
func (m *EventMachine) Update(dt float64) *EventOutcome {
	if dt < 0 {
		dt = 0
	}

	switch m.phase {
	case PhaseActive:
		ev := m.current
		ev.Elapsed += dt
		if ev.Elapsed >= ev.Template.Duration {
			return m.finish()
		}
		return nil

	case PhaseAlert:
		m.alertTimer += dt
		if m.alertTimer > m.cfg.AlertGrace {
			m.start()
		}
		return nil

	default:
		m.timer += dt
		if m.timer >= m.nextInterval {
			m.timer = 0
			m.alertTimer = 0
			m.phase = PhaseAlert
		}
		return nil
	}
}

// Acknowledge starts the announced event immediately.
// Returns false when no alert is showing.
func (m *EventMachine) Acknowledge() bool {
	if m.phase != PhaseAlert {
		return false
	}
	m.start()
	return true
}

// start instantiates a uniformly chosen template and spawns its targets.
func (m *EventMachine) start() {
	if len(m.cfg.Templates) == 0 {
		m.reset()
		return
	}
	tpl := m.cfg.Templates[m.rng.Intn(len(m.cfg.Templates))]
	ev := &ActiveEvent{Template: tpl}

	area := m.cfg.SpawnArea
	for i := 0; i < tpl.Required; i++ {
		ev.Targets = append(ev.Targets, Target{
			Position: Point{
				X: float64(intBetween(m.rng, area.MinX, area.MaxX)),
				Y: float64(intBetween(m.rng, area.MinY, area.MaxY)),
			},
			Alive: true,
		})
	}

	m.current = ev
	m.alertTimer = 0
	m.phase = PhaseActive
}

// finish resolves the active event and returns to idle.
func (m *EventMachine) finish() *EventOutcome {
	ev := m.current
	ev.Success = ev.Template.Timed() || ev.Collected >= ev.Template.Required
	if ev.Success {
		m.completed++
	}

	out := &EventOutcome{
		Kind:     ev.Template.Kind,
		Name:     ev.Template.Name,
		Success:  ev.Success,
		template: ev.Template,
	}
	m.reset()
	return out
}

func (m *EventMachine) reset() {
	m.current = nil
	m.phase = PhaseIdle
	m.timer = 0
	m.nextInterval = m.randomInterval()
}

// HandleClick hit-tests a click against the live targets.
// The first live target strictly within HitRadius is consumed and true is returned.
func (m *EventMachine) HandleClick(pos Point) bool {
	ev := m.current
	if m.phase != PhaseActive || ev == nil || ev.Template.Timed() {
		return false
	}
	radiusSq := m.cfg.HitRadius * m.cfg.HitRadius
	for i := range ev.Targets {
		t := &ev.Targets[i]
		if !t.Alive {
			continue
		}
		if distanceSq(pos, t.Position) < radiusSq {
			t.Alive = false
			ev.Collected++
			if ev.Collected >= ev.Template.Required {
				ev.Success = true
			}
			return true
		}
	}
	return false
}

// ClickMultiplier is applied to character clicks (5 during a gold rush, otherwise 1).
func (m *EventMachine) ClickMultiplier() int {
	if m.phase == PhaseActive && m.current != nil && m.current.Template.ClickMultiplier > 1 {
		return m.current.Template.ClickMultiplier
	}
	return 1
}
