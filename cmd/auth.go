package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/kedoo/internal/models"
)

// AuthRegister creates an account and makes it the active session.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email, err := requireArg(cmd, "email")
	if err != nil {
		return err
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	account, err := r.auth.Register(ctx, email, cmd.String("password"))
	if err != nil {
		return err
	}
	return r.writePlain("%s registered and signed in as %s\n", r.palette.Success("✓"), account.Email)
}

// AuthLogin signs in with an email and password.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email, err := requireArg(cmd, "email")
	if err != nil {
		return err
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	account, err := r.auth.Login(ctx, email, cmd.String("password"))
	if err != nil {
		return err
	}
	return r.writePlain("%s signed in as %s\n", r.palette.Success("✓"), describe(account))
}

// AuthLogout clears the active session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}
	if err := r.auth.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("%s signed out\n", r.palette.Success("✓"))
}

// AuthWhoami prints the active identity.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	account, err := r.auth.RequireSession()
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", describe(account))
}

func describe(a models.Account) string {
	if a.IsModerator {
		return a.Email + " (moderator)"
	}
	return a.Email
}
