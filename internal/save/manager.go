/*
Package save
File: manager.go
Description:
    The save manager. Encodes and decodes the record, stamps the save time,
    and computes the offline settlement. Every persistence fault is logged and
    turned into a false / nil result: a broken save never ends a session.
*/

package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"
)

// ErrNoSave is returned by stores when no save exists yet.
var ErrNoSave = errors.New("no save data")

// Store persists the encoded record. Implementations must treat a missing
// save as ErrNoSave rather than a failure.
type Store interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, payload []byte) error
	Delete(ctx context.Context) error
	Exists(ctx context.Context) (bool, error)
	Close() error
}

// AutoRater is anything that knows its passive income per second.
type AutoRater interface {
	AutoRate() float64
}

// Manager reads and writes records through a Store.
type Manager struct {
	store Store

	// Offline settlement tuning.
	Efficiency float64       // fraction of auto income paid while away
	MaxOffline time.Duration // longest absence that still pays

	// Now is the wall clock; tests replace it.
	Now func() time.Time
}

// NewManager builds a manager with the standard offline policy (50%, 24 hours).
func NewManager(store Store) *Manager {
	return &Manager{
		store:      store,
		Efficiency: 0.5,
		MaxOffline: 24 * time.Hour,
		Now:        time.Now,
	}
}

// Encode stamps the record with the current time and today's date and
// returns the indented JSON payload.
func (m *Manager) Encode(rec *Record) ([]byte, error) {
	now := m.Now()
	rec.LastPlayed = now.Format(time.RFC3339Nano)
	rec.DailyLogin = now.Format("2006-01-02")
	rec.Settings = rec.Settings.Clamped()

	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return payload, nil
}

// Decode parses a payload, filling absent keys with new-game defaults.
func Decode(payload []byte) (*Record, error) {
	rec := newRecord()
	if err := json.Unmarshal(payload, rec); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if rec.Player.UpgradeLevels == nil {
		rec.Player.UpgradeLevels = map[string]int{}
	}
	return rec, nil
}

// Save writes the record. Failures are logged and reported as false; the
// caller simply tries again at the next auto-save.
func (m *Manager) Save(ctx context.Context, rec *Record) bool {
	payload, err := m.Encode(rec)
	if err != nil {
		log.Printf("SAVE: %v", err)
		return false
	}
	if err := m.store.Write(ctx, payload); err != nil {
		log.Printf("SAVE: write failed: %v", err)
		return false
	}
	return true
}

// Load returns the saved record, or nil when there is none or it cannot be read.
func (m *Manager) Load(ctx context.Context) *Record {
	payload, err := m.store.Read(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSave) {
			log.Printf("LOAD: read failed: %v", err)
		}
		return nil
	}
	rec, err := Decode(payload)
	if err != nil {
		log.Printf("LOAD: corrupt save ignored: %v", err)
		return nil
	}
	return rec
}

// Delete removes the save. A missing save is not an error.
func (m *Manager) Delete(ctx context.Context) bool {
	if err := m.store.Delete(ctx); err != nil {
		log.Printf("SAVE: delete failed: %v", err)
		return false
	}
	return true
}

// HasSave reports whether a save exists.
func (m *Manager) HasSave(ctx context.Context) bool {
	ok, err := m.store.Exists(ctx)
	if err != nil {
		log.Printf("SAVE: exists check failed: %v", err)
		return false
	}
	return ok
}

// Close releases the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

// timestampLayouts are the accepted spellings of last_played.
// Zone-less values are read as local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a last_played value.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// OfflineEarnings computes the one-time grant for the time since lastPlayed.
// Formula: AutoRate * min(elapsed, MaxOffline) * Efficiency
// An unparseable timestamp or a clock that moved backwards pays 0.
func (m *Manager) OfflineEarnings(p AutoRater, lastPlayed string) float64 {
	last, err := ParseTimestamp(lastPlayed)
	if err != nil {
		log.Printf("OFFLINE: %v", err)
		return 0
	}

	elapsed := m.Now().Sub(last)
	if elapsed <= 0 {
		return 0
	}
	if elapsed > m.MaxOffline {
		elapsed = m.MaxOffline
	}

	earnings := p.AutoRate() * elapsed.Seconds() * m.Efficiency
	if math.IsNaN(earnings) || earnings < 0 {
		return 0
	}
	return earnings
}
