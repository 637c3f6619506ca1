package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/kedoo/internal/formatter"
	"github.com/desertthunder/kedoo/internal/models"
)

const (
	defaultWorkers   = 5
	maxWorkers       = 10
	defaultRateLimit = 5.0
	manifestName     = "export_manifest.json"
)

// Exporter renders one release. [lifecycle.ReleaseEngine] implements it with its visibility checks.
type Exporter interface {
	Export(ctx context.Context, id string, f formatter.Format) ([]byte, error)
}

// BulkExportOpts contains configuration for bulk release exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format, defaults to json
	OutputDir  string           // Output directory (default: kedoo_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 5, max: 10)
	RateLimit  float64          // Releases queued per second (default: 5)
}

// ReleaseExportResult is the outcome for one release.
type ReleaseExportResult struct {
	ReleaseID string `json:"releaseId"`
	File      string `json:"file,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Success reports whether the release was written.
func (r ReleaseExportResult) Success() bool { return r.Error == "" }

// BulkExportResult summarizes a bulk export and is written as the export manifest.
type BulkExportResult struct {
	Format            formatter.Format      `json:"format"`
	OutputDirectory   string                `json:"outputDirectory"`
	TotalReleases     int                   `json:"totalReleases"`
	SuccessfulExports int                   `json:"successfulExports"`
	FailedExports     int                   `json:"failedExports"`
	Results           []ReleaseExportResult `json:"results"`
	ManifestPath      string                `json:"-"`
}

// BulkExport exports multiple releases concurrently with rate limiting and progress tracking.
//
// Results are in completion order. Per-release failures are recorded, not returned; the error return covers
// setup, cancellation and the manifest write.
func BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	exporter Exporter,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("kedoo_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		TotalReleases:   len(ids),
		Results:         make([]ReleaseExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan string, len(ids))
	results := make(chan ReleaseExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go exportWorker(ctx, &wg, exporter, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		sendProgress(prog, queueUpdate(len(ids)))
		for _, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- id
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success() {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.ReleaseID, res.File))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, len(ids), res.ReleaseID, fmt.Errorf("%s", res.Error)))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export cancelled after %d of %d releases: %w", completed, len(ids), err)
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestName)
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(prog, manifestUpdate(manifestPath))
	return result, nil
}

// exportWorker is a worker goroutine that exports releases from the jobs channel.
func exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	exporter Exporter,
	jobs <-chan string,
	results chan<- ReleaseExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for id := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- exportSingleRelease(ctx, exporter, id, opts)
	}
}

// exportSingleRelease renders one release and writes it to the output directory.
func exportSingleRelease(ctx context.Context, exporter Exporter, id string, opts BulkExportOpts) ReleaseExportResult {
	result := ReleaseExportResult{ReleaseID: id}

	data, err := exporter.Export(ctx, id, opts.Format)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	path := filepath.Join(opts.OutputDir, formatter.Filename(models.Release{ID: id}, opts.Format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		result.Error = fmt.Sprintf("write failed: %v", err)
		return result
	}

	result.File = path
	return result
}

func writeManifest(result *BulkExportResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
