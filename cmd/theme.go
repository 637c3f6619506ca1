package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/kedoo/internal/models"
)

// ThemeShow prints the stored theme, dark when none is set.
func (r *Runner) ThemeShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	theme, err := r.preferences.Theme(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", theme)
}

// ThemeToggle switches between light and dark.
func (r *Runner) ThemeToggle(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	theme, err := r.preferences.ToggleTheme(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("%s theme set to %s\n", r.palette.Success("✓"), theme)
}

// ThemeSet stores the named theme.
func (r *Runner) ThemeSet(ctx context.Context, cmd *cli.Command) error {
	name, err := requireArg(cmd, "theme")
	if err != nil {
		return err
	}
	theme, err := models.ParseTheme(name)
	if err != nil {
		return err
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	if err := r.preferences.SetTheme(ctx, theme); err != nil {
		return err
	}
	return r.writePlain("%s theme set to %s\n", r.palette.Success("✓"), theme)
}
