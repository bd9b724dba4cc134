package repo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/herring101/docs-mcp/internal/core/domain"
	"github.com/herring101/docs-mcp/internal/logger"
)

const (
	// DefaultTimeout bounds the whole clone-and-copy run.
	DefaultTimeout = 5 * time.Minute

	// apiDelay is the minimum interval between GitHub API requests.
	apiDelay = 100 * time.Millisecond
)

// Config holds the settings for a repository import.
type Config struct {
	// OutputDir is the directory the subtree is copied into.
	OutputDir string

	// Token is an optional GitHub token for API calls and private repos.
	Token string

	// IncludePattern, when set, restricts copied files to matching
	// repository-relative paths.
	IncludePattern *regexp.Regexp

	// ExcludePattern, when set, drops matching paths.
	ExcludePattern *regexp.Regexp

	// Extensions is the extension allow-list. Empty means
	// domain.DefaultExtensions.
	Extensions []string

	// Timeout bounds the run. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Importer copies a repository subtree into the library.
type Importer struct {
	cfg     Config
	limiter *rate.Limiter
}

// NewImporter creates an importer with the given configuration.
func NewImporter(cfg Config) *Importer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = domain.DefaultExtensions
	}
	return &Importer{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(apiDelay), 1),
	}
}

// Import clones the referenced repository shallowly and copies the
// filtered subtree into the output directory. Per-file copy failures
// are recorded in the summary; clone failures abort the run.
func (i *Importer) Import(ctx context.Context, ref *Ref) (*domain.ImportSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, i.cfg.Timeout)
	defer cancel()

	branch := ref.Branch
	if branch == "" {
		branch = i.resolveBranch(ctx, ref)
	}

	tmpDir, err := os.MkdirTemp("", "docs-mcp-repo-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp dir: %v", domain.ErrPersistence, err)
	}
	defer os.RemoveAll(tmpDir)

	if err := i.clone(ctx, ref, branch, tmpDir); err != nil {
		return nil, err
	}
	if ref.Subdir != "" {
		if err := i.git(ctx, tmpDir, "sparse-checkout", "set", ref.Subdir); err != nil {
			return nil, err
		}
	} else {
		if err := i.git(ctx, tmpDir, "sparse-checkout", "disable"); err != nil {
			return nil, err
		}
	}

	srcRoot := filepath.Join(tmpDir, filepath.FromSlash(ref.Subdir))
	if _, err := os.Stat(srcRoot); err != nil {
		return nil, fmt.Errorf("%w: subdirectory %q not found in %s", domain.ErrNotFound, ref.Subdir, ref.String())
	}

	summary, err := i.copyTree(ctx, srcRoot)
	if err != nil {
		return summary, err
	}
	logger.Info("repo import complete: %d copied, %d failed, %d skipped",
		summary.Fetched, summary.Failed, summary.Skipped)
	return summary, nil
}

// resolveBranch determines the branch to clone when the reference does
// not name one. It asks the GitHub API for the default branch and falls
// back to probing the remote for main, then master.
func (i *Importer) resolveBranch(ctx context.Context, ref *Ref) string {
	if err := i.limiter.Wait(ctx); err == nil {
		client := i.apiClient(ctx)
		repo, _, err := client.Repositories.Get(ctx, ref.Owner, ref.Name)
		if err == nil && repo.GetDefaultBranch() != "" {
			logger.Debug("default branch of %s/%s is %s", ref.Owner, ref.Name, repo.GetDefaultBranch())
			return repo.GetDefaultBranch()
		}
		logger.Debug("default branch lookup failed for %s/%s: %v", ref.Owner, ref.Name, err)
	}

	for _, candidate := range []string{"main", "master"} {
		out, err := exec.CommandContext(ctx, "git", "ls-remote", "--heads", ref.CloneURL(), candidate).Output()
		if err == nil && len(bytes.TrimSpace(out)) > 0 {
			return candidate
		}
	}
	// Let git pick the remote default.
	return ""
}

// apiClient builds a go-github client, authenticated when a token is
// configured.
func (i *Importer) apiClient(ctx context.Context) *gh.Client {
	var httpClient *http.Client
	if i.cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: i.cfg.Token})
		httpClient = oauth2.NewClient(ctx, ts)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = 30 * time.Second
	return gh.NewClient(httpClient)
}

// clone performs a shallow, blob-filtered, sparse clone of the branch.
func (i *Importer) clone(ctx context.Context, ref *Ref, branch, dest string) error {
	args := []string{"clone", "--depth=1", "--filter=blob:none", "--sparse", "--single-branch"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, ref.CloneURL(), dest)

	cmd := exec.CommandContext(ctx, "git", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	logger.Debug("running git %s", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: git clone %s: %v: %s",
			domain.ErrImportTaskFailed, ref.String(), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// git runs a git subcommand inside the checkout.
func (i *Importer) git(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: git %s: %v: %s",
			domain.ErrImportTaskFailed, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// copyTree walks the checked-out subtree and copies allowed files into
// the output directory, preserving relative paths.
func (i *Importer) copyTree(ctx context.Context, srcRoot string) (*domain.ImportSummary, error) {
	summary := &domain.ImportSummary{}

	err := filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return err
		}
		relSlash := filepath.ToSlash(rel)
		if !i.wantFile(relSlash) {
			summary.Skipped++
			return nil
		}

		if err := i.copyFile(path, filepath.Join(i.cfg.OutputDir, rel)); err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, domain.TaskFailure{
				URL:    relSlash,
				Reason: err.Error(),
			})
			return nil
		}
		summary.Fetched++
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("%w: %v", domain.ErrImportTaskFailed, err)
	}
	return summary, nil
}

// wantFile applies the extension allow-list and the pattern filters to
// a subtree-relative slash path.
func (i *Importer) wantFile(relSlash string) bool {
	ext := strings.ToLower(filepath.Ext(relSlash))
	allowed := false
	for _, e := range i.cfg.Extensions {
		if ext == strings.ToLower(e) {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	if i.cfg.IncludePattern != nil && !i.cfg.IncludePattern.MatchString(relSlash) {
		return false
	}
	if i.cfg.ExcludePattern != nil && i.cfg.ExcludePattern.MatchString(relSlash) {
		return false
	}
	return true
}

func (i *Importer) copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return out.Close()
}
