/*
Package game
File: session.go
Description:
    The game session owns every piece of core state and is the only entry
    point the driving loop and the presentation layer talk to.

    Key Responsibilities:
    - Intents: click, purchase, character switch, event acknowledge, settings.
    - Tick(dt): auto income, random events, unlock re-evaluation, auto-save.
    - Load/Save: restoring the persisted record, the offline settlement and
      the daily login bonus.

    The session is single-threaded: callers must not use it concurrently.
*/

package game

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/everforgeworks/healing-clicker/internal/save"
)

// ClickResult is returned for every click the presentation forwards.
type ClickResult struct {
	PointsAwarded   int  `json:"points_awarded"`
	WasLucky        bool `json:"was_lucky"`
	Multiplier      int  `json:"multiplier"`       // Event multiplier applied (1 outside a gold rush)
	TargetCollected bool `json:"target_collected"` // The click hit an event target instead of the character
}

// Unlocks are the items newly unlocked since the presentation was last told.
type Unlocks struct {
	Achievements []AchievementDefinition `json:"achievements"`
	Characters   []string                `json:"characters"`
}

// TickResult reports everything that happened during one tick.
type TickResult struct {
	AutoIncome   int64                   `json:"auto_income"`
	Event        *EventOutcome           `json:"event,omitempty"`
	EventReward  *EventReward            `json:"event_reward,omitempty"`
	Achievements []AchievementDefinition `json:"achievements,omitempty"`
	Characters   []string                `json:"characters,omitempty"`
	Saved        bool                    `json:"saved,omitempty"`
}

// Notable reports whether the tick produced anything worth announcing.
func (r TickResult) Notable() bool {
	return r.Event != nil || len(r.Achievements) > 0 || len(r.Characters) > 0
}

// LoadReport describes what happened while loading.
type LoadReport struct {
	Fresh           bool    `json:"fresh"`            // No usable save existed
	OfflineEarnings float64 `json:"offline_earnings"` // Points granted for the time away
	DailyBonus      bool    `json:"daily_bonus"`      // First session of the day
}

// Session is one player's running game.
type Session struct {
	Balance      *Balance
	Player       *Player
	Characters   *Characters
	Achievements *Achievements
	Events       *EventMachine
	Settings     save.Settings

	rng           Rand
	saves         *save.Manager // nil disables persistence
	autoEarn      float64       // fractional auto income not yet granted
	autoSaveTimer float64
	pending       Unlocks
}

// NewSession builds a new-game session on a validated balance.
// A nil rng is replaced by a time-seeded one; a nil manager disables saving.
func NewSession(b *Balance, rng Rand, saves *save.Manager) *Session {
	if rng == nil {
		rng = NewRand(time.Now().UnixNano())
	}
	if saves != nil {
		saves.Efficiency = b.Offline.Efficiency
		saves.MaxOffline = time.Duration(b.Offline.MaxHours * float64(time.Hour))
	}
	return &Session{
		Balance:      b,
		Player:       NewPlayer(b),
		Characters:   NewCharacters(b),
		Achievements: NewAchievements(b),
		Events:       NewEventMachine(b.Events, rng),
		Settings:     save.DefaultSettings(),
		rng:          rng,
		saves:        saves,
	}
}

// ----------------------------------------------------------------------------
// Intents
// ----------------------------------------------------------------------------

// OnClick handles a click at pos. Event targets take priority over the character.
func (s *Session) OnClick(pos Point) ClickResult {
	// 1. Event target hit test
	if s.Events.HandleClick(pos) {
		return ClickResult{TargetCollected: true, Multiplier: 1}
	}

	// 2. Character click (gold rush multiplier + lucky roll)
	mult := s.Events.ClickMultiplier()
	points, lucky := s.Player.Click(mult, s.rng.Float64())

	// 3. Side effects: affection, lucky flag, unlocks
	s.Characters.AddAffection(s.Balance.Affection.Gains.Click)
	if lucky {
		s.Achievements.MarkLucky()
	}
	s.Reevaluate()

	return ClickResult{PointsAwarded: points, WasLucky: lucky, Multiplier: mult}
}

// OnPurchaseAttempt buys one level of an upgrade.
// Unknown upgrades, purchases during an active event, capped or unaffordable
// upgrades are refused without any state change.
func (s *Session) OnPurchaseAttempt(key string) bool {
	if _, ok := s.Player.Upgrade(key); !ok {
		return false
	}
	if s.Events.Phase() == PhaseActive {
		return false
	}
	if !s.Player.Purchase(key) {
		return false
	}
	s.Characters.AddAffection(s.Balance.Affection.Gains.Upgrade)
	s.Reevaluate()
	return true
}

// OnCharacterSwitch selects an unlocked character.
func (s *Session) OnCharacterSwitch(key string) bool {
	return s.Characters.Switch(key)
}

// OnEventAcknowledge starts an announced event right away.
func (s *Session) OnEventAcknowledge() bool {
	return s.Events.Acknowledge()
}

// OnSettingsChange stores new audio volumes, clamped to [0, 1].
func (s *Session) OnSettingsChange(bgm, sfx float64) save.Settings {
	s.Settings = save.Settings{BGMVolume: bgm, SFXVolume: sfx}.Clamped()
	return s.Settings
}

// ----------------------------------------------------------------------------
// Tick
// ----------------------------------------------------------------------------

// Tick advances the session by dt seconds.
func (s *Session) Tick(dt float64) TickResult {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}
	var res TickResult

	// 1. Auto income, granted in whole points
	if rate := s.Player.AutoRate(); rate > 0 {
		s.autoEarn += rate * dt
		if s.autoEarn >= 1 {
			earned := math.Floor(s.autoEarn)
			s.Player.AddPoints(earned)
			s.autoEarn -= earned
			res.AutoIncome = int64(earned)
		}
	}

	// 2. Random events
	if out := s.Events.Update(dt); out != nil {
		reward := s.resolveEvent(*out)
		res.Event = out
		res.EventReward = &reward
	}

	// 3. Unlocks (including any queued by intents since the last tick)
	s.Reevaluate()
	unlocks := s.drain()
	res.Achievements = unlocks.Achievements
	res.Characters = unlocks.Characters

	// 4. Auto-save; a failed save is retried at the next interval
	if s.saves != nil && s.Balance.AutoSaveInterval > 0 {
		s.autoSaveTimer += dt
		if s.autoSaveTimer >= s.Balance.AutoSaveInterval {
			s.autoSaveTimer = 0
			res.Saved = s.Save(context.Background())
		}
	}
	return res
}

// resolveEvent applies the payout of a resolved event.
func (s *Session) resolveEvent(out EventOutcome) EventReward {
	s.Achievements.MarkEvent()

	reward := out.Reward(s.Player.ClickPower(), s.Balance.Affection.Gains)
	if reward.Points > 0 {
		s.Player.AddPoints(float64(reward.Points))
	}
	if reward.Affection > 0 {
		s.Characters.AddAffection(reward.Affection)
	}

	if out.Success {
		log.Printf("EVENT: %s succeeded (+%d pts, +%.1f affection)", out.Kind, reward.Points, reward.Affection)
	} else {
		log.Printf("EVENT: %s failed", out.Kind)
	}
	return reward
}

// Reevaluate checks achievements (granting their rewards) and character
// unlocks. New items are queued for the next Tick result and also returned.
func (s *Session) Reevaluate() Unlocks {
	var u Unlocks
	for _, def := range s.Achievements.CheckAll(s.Player, s.Characters) {
		s.Player.AddPoints(float64(def.Reward))
		u.Achievements = append(u.Achievements, def)
	}
	u.Characters = s.Characters.CheckUnlocks(s.Player, s.Achievements.Count())

	s.pending.Achievements = append(s.pending.Achievements, u.Achievements...)
	s.pending.Characters = append(s.pending.Characters, u.Characters...)
	return u
}

// drain hands the queued unlocks to the caller and marks them announced.
func (s *Session) drain() Unlocks {
	out := s.pending
	s.pending = Unlocks{}
	for _, def := range out.Achievements {
		s.Achievements.MarkNotified(def.Key)
	}
	return out
}

// ----------------------------------------------------------------------------
// Persistence
// ----------------------------------------------------------------------------

// Load restores the saved game (if any), pays the offline settlement and the
// daily login bonus. A missing or corrupt save starts a fresh game.
func (s *Session) Load(ctx context.Context) LoadReport {
	var report LoadReport
	var rec *save.Record
	now := time.Now()
	if s.saves != nil {
		rec = s.saves.Load(ctx)
		now = s.saves.Now()
	}

	// 1. Restore or start fresh
	if rec == nil {
		report.Fresh = true
	} else {
		s.Restore(rec)

		// 2. Offline settlement
		if rec.LastPlayed != "" {
			earned := s.saves.OfflineEarnings(s.Player, rec.LastPlayed)
			if earned > 0 {
				s.Player.AddPoints(earned)
				s.Achievements.MarkOffline()
				report.OfflineEarnings = earned
				log.Printf("LOAD: welcome back, +%.0f pts offline", earned)
			}
		}
	}

	// 3. Daily login affection
	if rec == nil || rec.DailyLogin != now.Format("2006-01-02") {
		s.Characters.AddAffection(s.Balance.Affection.Gains.DailyLogin)
		report.DailyBonus = true
	}

	s.Reevaluate()
	return report
}

// Save writes the current state. Returns false (already logged) on failure.
func (s *Session) Save(ctx context.Context) bool {
	if s.saves == nil {
		return false
	}
	return s.saves.Save(ctx, s.Record())
}

// Record builds the persisted form of the session.
func (s *Session) Record() *save.Record {
	levels := make(map[string]int, len(s.Balance.Upgrades))
	for _, u := range s.Balance.Upgrades {
		levels[u.Key] = s.Player.Level(u.Key)
	}
	return &save.Record{
		Player: save.PlayerRecord{
			Points:            s.Player.Points,
			TotalPointsEarned: s.Player.TotalPointsEarned,
			TotalClicks:       s.Player.TotalClicks,
			UpgradeLevels:     levels,
		},
		Settings: s.Settings,
		Characters: &save.CharacterRecord{
			CurrentCharacter: s.Characters.Current(),
			Unlocked:         s.Characters.Unlocked(),
			Affection:        s.Characters.AffectionMap(),
		},
		Achievements: &save.AchievementRecord{
			Unlocked:     s.Achievements.Unlocked(),
			Notified:     s.Achievements.Notified(),
			FirstLucky:   s.Achievements.FirstLucky,
			FirstOffline: s.Achievements.FirstOffline,
			FirstEvent:   s.Achievements.FirstEvent,
		},
		Events: &save.EventRecord{TotalEventsCompleted: s.Events.Completed()},
	}
}

// Restore replaces the session state with a persisted record.
// Unknown ids are ignored; absent sections keep their new-game defaults.
func (s *Session) Restore(rec *save.Record) {
	// 1. Player ledger
	p := s.Player
	p.Points = math.Max(0, rec.Player.Points)
	p.TotalPointsEarned = math.Max(p.Points, rec.Player.TotalPointsEarned)
	p.TotalClicks = max(0, rec.Player.TotalClicks)
	for key := range p.UpgradeLevels {
		p.UpgradeLevels[key] = max(0, rec.Player.UpgradeLevels[key])
	}

	// 2. Sections
	if c := rec.Characters; c != nil {
		s.Characters.Restore(c.CurrentCharacter, c.Unlocked, c.Affection)
	}
	if a := rec.Achievements; a != nil {
		s.Achievements.Restore(a.Unlocked, a.Notified, a.FirstLucky, a.FirstOffline, a.FirstEvent)
	}
	if e := rec.Events; e != nil {
		s.Events.SetCompleted(e.TotalEventsCompleted)
	}
	s.Settings = rec.Settings.Clamped()
}
