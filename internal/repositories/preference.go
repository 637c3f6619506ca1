package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/store"
)

// PreferenceRepository persists the UI theme under the ui_theme key.
type PreferenceRepository struct {
	store store.Store
}

// NewPreferenceRepository creates a new [PreferenceRepository] backed by s
func NewPreferenceRepository(s store.Store) *PreferenceRepository {
	return &PreferenceRepository{store: s}
}

// Theme returns the stored theme, or [models.DefaultTheme] when none is stored.
func (r *PreferenceRepository) Theme(ctx context.Context) (models.Theme, error) {
	data, err := r.store.Get(ctx, KeyUITheme)
	if err != nil {
		return "", err
	}
	return decodeTheme(data)
}

// SetTheme stores theme
func (r *PreferenceRepository) SetTheme(ctx context.Context, theme models.Theme) error {
	if _, err := models.ParseTheme(string(theme)); err != nil {
		return err
	}
	data, err := json.Marshal(theme)
	if err != nil {
		return fmt.Errorf("failed to encode theme: %w", err)
	}
	return r.store.Set(ctx, KeyUITheme, data)
}

// ToggleTheme flips the stored theme atomically and returns the new value.
func (r *PreferenceRepository) ToggleTheme(ctx context.Context) (models.Theme, error) {
	var next models.Theme
	err := r.store.Update(ctx, KeyUITheme, func(current []byte) ([]byte, error) {
		theme, err := decodeTheme(current)
		if err != nil {
			return nil, err
		}
		next = theme.Toggle()
		return json.Marshal(next)
	})
	if err != nil {
		return "", err
	}
	return next, nil
}

func decodeTheme(data []byte) (models.Theme, error) {
	if len(data) == 0 {
		return models.DefaultTheme, nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return "", fmt.Errorf("failed to decode theme: %w", err)
	}
	return models.ParseTheme(name)
}
