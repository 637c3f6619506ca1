package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/kedoo/internal/server"
	"github.com/desertthunder/kedoo/internal/shared"
)

// Serve runs the JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	cfg := r.config.Server
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = port
	}

	srv := server.New(cfg, shared.WithLogger(r.logger, "component", "api"), server.Handlers(r.deps())...)
	return srv.ListenAndServe(ctx, func(addr string) {
		url := "http://" + addr + "/api/health"
		r.writePlain("%s serving on http://%s\n", r.palette.Success("✓"), addr)
		if !cmd.Bool("open") {
			return
		}
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "url", url, "error", err)
		}
	})
}
