/*
Package save
File: record.go
Description:
    Defines the persisted record: one flat JSON document holding the player
    ledger, timestamps, audio settings and the character / achievement / event
    sections. Every key is optional on read; missing keys fall back to the
    defaults of a new game.
*/

package save

// Default audio volumes for a fresh save.
const (
	DefaultBGMVolume = 0.5
	DefaultSFXVolume = 0.7
)

// Record is the whole save document.
type Record struct {
	Player       PlayerRecord       `json:"player"`
	LastPlayed   string             `json:"last_played"` // RFC 3339 timestamp of the save
	DailyLogin   string             `json:"daily_login"` // YYYY-MM-DD of the save (local date)
	Settings     Settings           `json:"settings"`
	Characters   *CharacterRecord   `json:"characters,omitempty"`
	Achievements *AchievementRecord `json:"achievements,omitempty"`
	Events       *EventRecord       `json:"events,omitempty"`
}

// PlayerRecord mirrors the player ledger.
type PlayerRecord struct {
	Points            float64        `json:"points"`
	TotalPointsEarned float64        `json:"total_points_earned"`
	TotalClicks       int            `json:"total_clicks"`
	UpgradeLevels     map[string]int `json:"upgrade_levels"`
}

// Settings are the presentation-owned audio volumes, each in [0, 1].
type Settings struct {
	BGMVolume float64 `json:"bgm_volume"`
	SFXVolume float64 `json:"sfx_volume"`
}

// DefaultSettings returns the volumes of a fresh install.
func DefaultSettings() Settings {
	return Settings{BGMVolume: DefaultBGMVolume, SFXVolume: DefaultSFXVolume}
}

// Clamped returns the settings with both volumes forced into [0, 1].
func (s Settings) Clamped() Settings {
	return Settings{BGMVolume: clamp01(s.BGMVolume), SFXVolume: clamp01(s.SFXVolume)}
}

func clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// CharacterRecord mirrors the character tracker.
type CharacterRecord struct {
	CurrentCharacter string             `json:"current_character"`
	Unlocked         []string           `json:"unlocked"`
	Affection        map[string]float64 `json:"affection"`
}

// AchievementRecord mirrors the achievement engine.
type AchievementRecord struct {
	Unlocked     []string `json:"unlocked"`
	Notified     []string `json:"notified"`
	FirstLucky   bool     `json:"first_lucky"`
	FirstOffline bool     `json:"first_offline"`
	FirstEvent   bool     `json:"first_event"`
}

// EventRecord keeps only the lifetime counter; a running event is never saved.
type EventRecord struct {
	TotalEventsCompleted int `json:"total_events_completed"`
}

// newRecord returns the defaults that missing keys decode to.
func newRecord() *Record {
	return &Record{
		Player:   PlayerRecord{UpgradeLevels: map[string]int{}},
		Settings: DefaultSettings(),
	}
}
