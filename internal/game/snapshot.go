/*
Package game
File: snapshot.go
Description:
    Read-only views of the session for renderers.
    The HTTP API, the WebSocket broadcasts and the status command all draw
    from the same Snapshot, so none of them touch live state.
*/

package game

import (
	"math"

	"github.com/everforgeworks/healing-clicker/internal/save"
)

// Snapshot is a read-only copy of everything a renderer needs to draw a frame.
type Snapshot struct {
	Points            float64 `json:"points"`
	TotalPointsEarned float64 `json:"total_points_earned"`
	TotalClicks       int     `json:"total_clicks"`
	ClickPower        int     `json:"click_power"`
	AutoRate          float64 `json:"auto_rate"`
	LuckyChance       float64 `json:"lucky_chance"`

	Upgrades         []UpgradeView     `json:"upgrades"`
	CurrentCharacter string            `json:"current_character"`
	Characters       []CharacterView   `json:"characters"`
	AffectionMax     float64           `json:"affection_max"`
	Achievements     []AchievementView `json:"achievements"`
	AchievementCount int               `json:"achievement_count"`
	Event            EventView         `json:"event"`
	EventsCompleted  int               `json:"events_completed"`
	Settings         save.Settings     `json:"settings"`
}

// UpgradeView is one row of the shop.
type UpgradeView struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       int    `json:"level"`
	MaxLevel    int    `json:"max_level,omitempty"`
	Cost        int64  `json:"cost"`
	Affordable  bool   `json:"affordable"`
	Maxed       bool   `json:"maxed"`
}

// CharacterView is one card of the character picker.
type CharacterView struct {
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	Theme      string  `json:"theme"`
	Unlocked   bool    `json:"unlocked"`
	Affection  float64 `json:"affection"`
	Level      int     `json:"level"`
	LevelName  string  `json:"level_name"`
	Expression string  `json:"expression"`
	UnlockHint string  `json:"unlock_hint,omitempty"` // Condition text for locked characters
}

// AchievementView is one row of the achievement list.
type AchievementView struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Reward      int64    `json:"reward"`
	Unlocked    bool     `json:"unlocked"`
	Progress    *float64 `json:"progress,omitempty"` // nil when the condition has no ratio
}

// EventView describes the random event banner.
type EventView struct {
	Phase           EventPhase `json:"phase"`
	Kind            EventKind  `json:"kind,omitempty"`
	Name            string     `json:"name,omitempty"`
	Description     string     `json:"description,omitempty"`
	TimeRemaining   float64    `json:"time_remaining,omitempty"`
	Collected       int        `json:"collected,omitempty"`
	Required        int        `json:"required,omitempty"`
	Progress        float64    `json:"progress,omitempty"`
	Targets         []Target   `json:"targets,omitempty"` // Live targets only
	ClickMultiplier int        `json:"click_multiplier"`
	NextEventIn     float64    `json:"next_event_in,omitempty"`   // Idle only
	AlertRemaining  float64    `json:"alert_remaining,omitempty"` // Alert only: time before auto-start
}

// Snapshot copies the current state for rendering.
func (s *Session) Snapshot() Snapshot {
	p := s.Player
	snap := Snapshot{
		Points:            p.Points,
		TotalPointsEarned: p.TotalPointsEarned,
		TotalClicks:       p.TotalClicks,
		ClickPower:        p.ClickPower(),
		AutoRate:          p.AutoRate(),
		LuckyChance:       p.LuckyChance(),
		CurrentCharacter:  s.Characters.Current(),
		AffectionMax:      s.Balance.Affection.Max,
		AchievementCount:  s.Achievements.Count(),
		EventsCompleted:   s.Events.Completed(),
		Settings:          s.Settings,
	}

	for _, u := range s.Balance.Upgrades {
		level := p.Level(u.Key)
		snap.Upgrades = append(snap.Upgrades, UpgradeView{
			Key:         u.Key,
			Name:        u.Name,
			Description: u.Description,
			Level:       level,
			MaxLevel:    u.MaxLevel,
			Cost:        u.Cost(level),
			Affordable:  p.CanAfford(u.Key),
			Maxed:       u.Capped(level),
		})
	}

	for _, d := range s.Characters.Definitions() {
		lv := s.Characters.Level(d.Key)
		view := CharacterView{
			Key:        d.Key,
			Name:       d.Name,
			Theme:      d.Theme,
			Unlocked:   s.Characters.IsUnlocked(d.Key),
			Affection:  s.Characters.Affection(d.Key),
			Level:      s.Characters.LevelIndex(d.Key),
			LevelName:  lv.Name,
			Expression: lv.Expression,
		}
		if !view.Unlocked && d.Unlock != nil {
			view.UnlockHint = d.Unlock.String()
		}
		snap.Characters = append(snap.Characters, view)
	}

	for _, def := range s.Achievements.Definitions() {
		view := AchievementView{
			Key:         def.Key,
			Name:        def.Name,
			Description: def.Description,
			Reward:      def.Reward,
			Unlocked:    s.Achievements.IsUnlocked(def.Key),
		}
		if !view.Unlocked {
			if ratio, ok := s.Achievements.Progress(def, p, s.Characters); ok {
				view.Progress = &ratio
			}
		}
		snap.Achievements = append(snap.Achievements, view)
	}

	snap.Event = s.eventView()
	return snap
}

func (s *Session) eventView() EventView {
	view := EventView{
		Phase:           s.Events.Phase(),
		ClickMultiplier: s.Events.ClickMultiplier(),
	}
	switch view.Phase {
	case PhaseIdle:
		view.NextEventIn = math.Max(0, s.Events.NextInterval()-s.Events.IdleTimer())
	case PhaseAlert:
		view.AlertRemaining = math.Max(0, s.Balance.Events.AlertGrace-s.Events.AlertTimer())
	}
	ev := s.Events.Current()
	if ev == nil {
		return view
	}
	view.Kind = ev.Template.Kind
	view.Name = ev.Template.Name
	view.Description = ev.Template.Description
	view.TimeRemaining = ev.TimeRemaining()
	view.Collected = ev.Collected
	view.Required = ev.Template.Required
	view.Progress = ev.Progress()
	for _, t := range ev.Targets {
		if t.Alive {
			view.Targets = append(view.Targets, t)
		}
	}
	return view
}
