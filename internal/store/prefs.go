package store

import (
	"database/sql"
	"errors"
	"fmt"
)

const themeKey = "ui.theme"

// Prefs provides access to persisted user preferences backed by the
// settings table.
type Prefs struct {
	db *DB
}

// NewPrefs returns a Prefs view over db.
func NewPrefs(db *DB) *Prefs {
	return &Prefs{db: db}
}

// Theme returns the persisted theme preference. ok is false when no
// preference has been saved yet.
func (p *Prefs) Theme() (dark bool, ok bool) {
	v, found, err := p.get(themeKey)
	if err != nil {
		p.db.log.Warn().Err(err).Msg("reading theme preference")
		return false, false
	}
	if !found {
		return false, false
	}
	return v == "dark", true
}

// SetTheme persists the theme preference.
func (p *Prefs) SetTheme(dark bool) error {
	v := "light"
	if dark {
		v = "dark"
	}
	return p.set(themeKey, v)
}

func (p *Prefs) get(key string) (string, bool, error) {
	var v string
	err := p.db.sql.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %q: %w", key, err)
	}
	return v, true, nil
}

func (p *Prefs) set(key, value string) error {
	_, err := p.db.sql.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing setting %q: %w", key, err)
	}
	return nil
}
