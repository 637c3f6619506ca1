package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/kedoo/internal/formatter"
	"github.com/desertthunder/kedoo/internal/manifest"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/desertthunder/kedoo/internal/tasks"
)

// ReleaseNew builds a release from a manifest file and either saves it as a draft or submits it.
func (r *Runner) ReleaseNew(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	m, err := manifest.Load(cmd.String("manifest"))
	if err != nil {
		return err
	}

	collection, err := m.Build(r.resolver)
	if err != nil {
		return err
	}

	var release models.Release
	if m.Draft || cmd.Bool("draft") {
		release, err = r.releases.SaveDraft(ctx, collection)
	} else {
		release, err = r.releases.Submit(ctx, collection)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(release, true)
	}
	return r.writePlain("%s %s %q saved as %s\n", r.palette.Success("✓"), release.ID, release.Title, r.palette.ReleaseBadge(release.Status))
}

// ReleaseSubmit sends a draft to moderation.
func (r *Runner) ReleaseSubmit(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "release id")
	if err != nil {
		return err
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	release, err := r.releases.SubmitDraft(ctx, id)
	if err != nil {
		return err
	}
	return r.writePlain("%s %s submitted, now %s\n", r.palette.Success("✓"), release.ID, r.palette.ReleaseBadge(release.Status))
}

// ReleaseList prints the signed-in user's releases.
func (r *Runner) ReleaseList(ctx context.Context, cmd *cli.Command) error {
	var status models.ReleaseStatus
	if s := cmd.String("status"); s != "" {
		parsed, err := models.ParseReleaseStatus(s)
		if err != nil {
			return err
		}
		status = parsed
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	releases, err := r.releases.ListMine(ctx, status)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(releases, true)
	}
	if len(releases) == 0 {
		return r.writePlain("%s\n", r.palette.Muted("No releases"))
	}
	return r.writePlain("%s\n", formatter.ReleaseTable(releases, r.palette))
}

// ReleaseShow prints one release with its tracks.
func (r *Runner) ReleaseShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "release id")
	if err != nil {
		return err
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	release, err := r.releases.Get(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(release, true)
	}

	r.writePlainHeader(release.Title)
	r.writePlain("ID:       %s\n", release.ID)
	r.writePlain("Artist:   %s\n", release.Artist)
	r.writePlain("Genre:    %s\n", release.Genre)
	r.writePlain("Owner:    %s\n", release.UserEmail)
	r.writePlain("Status:   %s\n", r.palette.ReleaseBadge(release.Status))
	if release.ReleaseDate != "" {
		r.writePlain("Date:     %s\n", release.ReleaseDate)
	}
	if release.UPC != "" {
		r.writePlain("UPC:      %s\n", release.UPC)
	}
	r.writePlain("Cover:    %s\n", release.CoverImage)
	if release.RejectionReason != "" {
		r.writePlain("Rejected: %s\n", r.palette.Error(release.RejectionReason))
	}
	return r.writePlainln("%s", formatter.TrackTable(release.Tracks))
}

// ReleaseDelete removes a draft or rejected release.
func (r *Runner) ReleaseDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "release id")
	if err != nil {
		return err
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	if err := r.releases.Delete(ctx, id); err != nil {
		return err
	}
	return r.writePlain("%s deleted %s\n", r.palette.Success("✓"), id)
}

// ReleaseExport writes a release in the requested format to stdout or a file.
func (r *Runner) ReleaseExport(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "release id")
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		data, err := r.releases.Export(ctx, id, format)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	release, err := r.releases.Get(ctx, id)
	if err != nil {
		return err
	}
	if output == "-" {
		output = ""
	}

	path, err := formatter.WriteExport(release, format, output)
	if err != nil {
		return err
	}
	r.logger.Info("exported release", "id", id, "format", format, "path", path)
	return r.writePlain("%s exported to %s\n", r.palette.Success("✓"), path)
}

// ReleaseExportAll writes every matching release of the signed-in user to a directory.
func (r *Runner) ReleaseExportAll(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if workers := cmd.Int("workers"); workers < 1 {
		return fmt.Errorf("%w: --workers must be at least 1, got %d", shared.ErrInvalidArgument, workers)
	}
	var status models.ReleaseStatus
	if s := cmd.String("status"); s != "" {
		if status, err = models.ParseReleaseStatus(s); err != nil {
			return err
		}
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	releases, err := r.releases.ListMine(ctx, status)
	if err != nil {
		return err
	}
	if len(releases) == 0 {
		return r.writePlain("%s\n", r.palette.Muted("No releases to export"))
	}

	ids := make([]string, len(releases))
	for i, rel := range releases {
		ids[i] = rel.ID
	}

	prog := make(chan tasks.ProgressUpdate, len(ids)+2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range prog {
			r.logger.Debug(u.Message, "phase", u.Phase, "step", u.Step, "total", u.Total)
		}
	}()

	result, err := tasks.BulkExport(ctx, prog, r.releases, ids, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("dir"),
		NumWorkers: cmd.Int("workers"),
	})
	close(prog)
	<-done
	if err != nil {
		return err
	}

	for _, res := range result.Results {
		if !res.Success() {
			r.writePlain("%s %s: %s\n", r.palette.Error("✗"), res.ReleaseID, res.Error)
		}
	}
	return r.writePlain("%s exported %d of %d releases to %s\n",
		r.palette.Success("✓"), result.SuccessfulExports, result.TotalReleases, result.OutputDirectory)
}
