package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or API layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	QueueReleases Phase = iota
	ExportRelease
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case QueueReleases:
		return "queue_releases"
	case ExportRelease:
		return "export_release"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

// sendProgress delivers u without blocking. A nil channel drops it.
func sendProgress(prog chan<- ProgressUpdate, u ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- u:
	default:
	}
}

func queueUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   QueueReleases,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Queueing %d releases...", total),
	}
}

func exportCompletedUpdate(step, total int, id, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportRelease,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s → %s", step, total, id, path),
	}
}

func exportFailedUpdate(step, total int, id string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportRelease,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, id, err),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote manifest %s", path),
	}
}
