package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/herring101/docs-mcp/internal/core/domain"
	"github.com/herring101/docs-mcp/internal/logger"
)

// Crawl defaults. These mirror sensible politeness settings for
// documentation sites: shallow depth, modest parallelism, and a
// shared minimum delay between requests.
const (
	DefaultDepth       = 2
	DefaultConcurrency = 10
	DefaultDelay       = 100 * time.Millisecond
	DefaultTimeout     = 30 * time.Second
	DefaultRetries     = 3

	retryBaseDelay = 500 * time.Millisecond
	maxBodySize    = 10 << 20 // 10 MiB per page
)

// Config holds the settings for a single crawl run.
type Config struct {
	// OutputDir is the directory markdown files are written under.
	OutputDir string

	// Depth is the maximum link depth from the start URL. Zero means
	// the start page only; negative values are treated as zero. The
	// CLI supplies DefaultDepth when the flag is not given.
	Depth int

	// Concurrency is the number of parallel fetch workers.
	Concurrency int

	// Delay is the minimum interval between any two requests, shared
	// across all workers.
	Delay time.Duration

	// Timeout bounds each individual fetch attempt.
	Timeout time.Duration

	// Retries is the number of additional attempts after a transient failure.
	Retries int

	// IncludePattern, when set, restricts enqueued links to matching URLs.
	IncludePattern *regexp.Regexp

	// ExcludePattern, when set, drops matching URLs from the frontier.
	ExcludePattern *regexp.Regexp

	// UserAgent is sent with every request.
	UserAgent string

	// Progress enables a progress bar on stderr when it is a terminal.
	Progress bool
}

// withDefaults fills zero-valued fields. Depth is left alone: zero is
// a meaningful setting, not an absent one.
func (c Config) withDefaults() Config {
	if c.Depth < 0 {
		c.Depth = 0
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Delay <= 0 {
		c.Delay = DefaultDelay
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Retries <= 0 {
		c.Retries = DefaultRetries
	}
	if c.UserAgent == "" {
		c.UserAgent = "docs-mcp/1.0"
	}
	return c
}

// Crawler fetches a documentation site breadth-first and writes each
// page as markdown under the configured output directory.
type Crawler struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

// NewCrawler creates a crawler with the given configuration.
func NewCrawler(cfg Config) *Crawler {
	cfg = cfg.withDefaults()
	return &Crawler{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(cfg.Delay), 1),
	}
}

// frontier is the shared crawl state. Workers pop pending tasks and
// push newly discovered links; the run is over when the queue is empty
// and no task is in flight.
type frontier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []*domain.ImportTask
	visited  map[string]bool
	inflight int
	skipped  int
}

func newFrontier() *frontier {
	f := &frontier{visited: make(map[string]bool)}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// push enqueues the URL unless it was already seen. Returns true when
// a new task was created.
func (f *frontier) push(rawURL string, depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.visited[rawURL] {
		f.skipped++
		return false
	}
	f.visited[rawURL] = true
	f.queue = append(f.queue, &domain.ImportTask{
		ID:    uuid.NewString(),
		URL:   rawURL,
		Depth: depth,
		State: domain.TaskPending,
	})
	f.cond.Broadcast()
	return true
}

// skip records a discovered link that was filtered out.
func (f *frontier) skip() {
	f.mu.Lock()
	f.skipped++
	f.mu.Unlock()
}

// pop blocks until a task is available or the crawl is complete.
// It returns nil when the queue is drained and nothing is in flight.
func (f *frontier) pop() *domain.ImportTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.queue) == 0 && f.inflight > 0 {
		f.cond.Wait()
	}
	if len(f.queue) == 0 {
		return nil
	}
	task := f.queue[0]
	f.queue = f.queue[1:]
	f.inflight++
	task.State = domain.TaskFetching
	return task
}

// done marks a popped task as finished. When the last in-flight task
// completes with an empty queue, all waiting workers are released.
func (f *frontier) done() {
	f.mu.Lock()
	f.inflight--
	if f.inflight == 0 && len(f.queue) == 0 {
		f.cond.Broadcast()
	}
	f.mu.Unlock()
}

// Crawl runs the import starting at startURL. Per-page failures are
// recorded in the summary and never abort the run; Crawl returns an
// error only for an invalid start URL, an unwritable output directory,
// or a cancelled context.
func (c *Crawler) Crawl(ctx context.Context, startURL string) (*domain.ImportSummary, error) {
	start, err := url.Parse(startURL)
	if err != nil || start.Scheme == "" || start.Host == "" {
		return nil, fmt.Errorf("%w: invalid start URL %q", domain.ErrInvalidInput, startURL)
	}
	if err := os.MkdirAll(c.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create output dir: %v", domain.ErrPersistence, err)
	}

	f := newFrontier()
	startKey, err := NormalizeURL(start.String())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start URL %q", domain.ErrInvalidInput, startURL)
	}
	f.push(startKey, 0)

	var (
		resultMu sync.Mutex
		summary  domain.ImportSummary
	)
	bar := c.progressBar()

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				task := f.pop()
				if task == nil {
					return
				}
				if ctx.Err() != nil {
					f.done()
					continue
				}
				taskErr := c.process(ctx, task, start, f)

				resultMu.Lock()
				if taskErr == nil {
					summary.Fetched++
				} else {
					summary.Failed++
					summary.Failures = append(summary.Failures, domain.TaskFailure{
						URL:    task.URL,
						Reason: taskErr.Error(),
					})
				}
				resultMu.Unlock()
				if bar != nil {
					_ = bar.Add(1)
				}
				f.done()
			}
		}()
	}
	wg.Wait()
	if bar != nil {
		_ = bar.Finish()
	}

	f.mu.Lock()
	summary.Skipped = f.skipped
	f.mu.Unlock()
	sort.Slice(summary.Failures, func(i, j int) bool {
		return summary.Failures[i].URL < summary.Failures[j].URL
	})

	if ctx.Err() != nil {
		return &summary, ctx.Err()
	}
	logger.Info("crawl complete: %d fetched, %d failed, %d skipped",
		summary.Fetched, summary.Failed, summary.Skipped)
	return &summary, nil
}

// process fetches a single task, retrying transient failures, then
// saves the page and enqueues its links. The returned error is the
// terminal failure reason, nil on success.
func (c *Crawler) process(ctx context.Context, task *domain.ImportTask, start *url.URL, f *frontier) error {
	var (
		body string
		err  error
	)
	for task.Attempts = 1; ; task.Attempts++ {
		body, err = c.fetch(ctx, task.URL)
		if err == nil {
			break
		}
		retryable := isRetryable(err)
		logger.Debug("fetch %s attempt %d failed (retryable=%v): %v", task.URL, task.Attempts, retryable, err)
		if !retryable || task.Attempts > c.cfg.Retries || ctx.Err() != nil {
			task.State = domain.TaskFailed
			return err
		}
		task.State = domain.TaskPending
		select {
		case <-ctx.Done():
			task.State = domain.TaskFailed
			return ctx.Err()
		case <-time.After(retryBaseDelay * time.Duration(1<<(task.Attempts-1))):
		}
		task.State = domain.TaskFetching
	}

	pageURL, err := url.Parse(task.URL)
	if err != nil {
		task.State = domain.TaskFailed
		return err
	}
	task.LocalPath, err = PathForURL(task.URL)
	if err != nil {
		task.State = domain.TaskFailed
		return err
	}
	if err := c.save(task.LocalPath, ToMarkdown(body)); err != nil {
		task.State = domain.TaskFailed
		return err
	}
	task.State = domain.TaskSucceeded
	logger.Debug("saved %s -> %s", task.URL, task.LocalPath)

	if task.Depth >= c.cfg.Depth {
		return nil
	}
	for _, link := range ExtractLinks(body, pageURL) {
		linkURL, err := url.Parse(link)
		if err != nil {
			continue
		}
		if !c.wantLink(linkURL, start) {
			f.skip()
			continue
		}
		key, err := NormalizeURL(link)
		if err != nil {
			continue
		}
		f.push(key, task.Depth+1)
	}
	return nil
}

// wantLink reports whether a discovered link belongs to the crawl:
// same host as the start URL, http(s), and passing the pattern filters.
func (c *Crawler) wantLink(link, start *url.URL) bool {
	if link.Scheme != "http" && link.Scheme != "https" {
		return false
	}
	if link.Host != start.Host {
		return false
	}
	raw := link.String()
	if c.cfg.IncludePattern != nil && !c.cfg.IncludePattern.MatchString(raw) {
		return false
	}
	if c.cfg.ExcludePattern != nil && c.cfg.ExcludePattern.MatchString(raw) {
		return false
	}
	return true
}

// retryableError marks transient fetch failures worth another attempt.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// fetch performs one rate-limited, timeout-bounded GET.
func (c *Crawler) fetch(ctx context.Context, rawURL string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	fetchCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &retryableError{fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", &retryableError{fmt.Errorf("server returned %s", resp.Status)}
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("server returned %s", resp.Status)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "" && !strings.Contains(ct, "html") && !strings.Contains(ct, "text/plain") {
		return "", fmt.Errorf("unsupported content type %q", ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", &retryableError{fmt.Errorf("read body: %w", err)}
	}
	return string(body), nil
}

// save writes the markdown under the output directory. relPath comes
// from PathForURL and holds sanitised forward-slash segments.
func (c *Crawler) save(relPath, content string) error {
	target := filepath.Join(c.cfg.OutputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// progressBar returns a spinner-style bar when enabled and stderr is a
// terminal, nil otherwise. The total page count is unknown up front.
func (c *Crawler) progressBar() *progressbar.ProgressBar {
	if !c.cfg.Progress || !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("crawling"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
	)
}
