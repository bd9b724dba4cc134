package domain

// TaskState is the lifecycle state of an import task.
type TaskState int

// Task states. Pending tasks wait in the frontier; a failed task
// returns to Pending while retries remain, otherwise it is terminal.
const (
	TaskPending TaskState = iota
	TaskFetching
	TaskSucceeded
	TaskFailed
)

// String returns the human-readable state name.
func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskFetching:
		return "fetching"
	case TaskSucceeded:
		return "succeeded"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ImportTask is a unit of fetch work within a single import run.
// Tasks are transient: produced and consumed inside the run, never persisted.
type ImportTask struct {
	// ID uniquely identifies the task within the run.
	ID string

	// URL is the remote location to fetch.
	URL string

	// Depth is the crawl depth at which the task was discovered.
	Depth int

	// Attempts counts fetch attempts made so far.
	Attempts int

	// State is the current lifecycle state.
	State TaskState

	// LocalPath is the output-relative file path the task resolves to.
	LocalPath string
}

// TaskFailure records a terminally failed task for the run summary.
type TaskFailure struct {
	// URL is the remote location that could not be fetched.
	URL string

	// Reason is the final error message.
	Reason string
}

// ImportSummary aggregates the outcome of an import run.
// Per-task failures never abort the run; they are counted here.
type ImportSummary struct {
	// Fetched is the number of tasks that succeeded.
	Fetched int

	// Failed is the number of tasks that exhausted their retries.
	Failed int

	// Skipped is the number of discovered links not enqueued
	// (already visited, filtered out, or beyond the depth bound).
	Skipped int

	// Failures lists terminal failures with their reasons.
	Failures []TaskFailure
}
