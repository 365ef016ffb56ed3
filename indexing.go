package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lexandro/quickfind/config"
	"github.com/lexandro/quickfind/crawler"
	"github.com/lexandro/quickfind/ignore"
	"github.com/lexandro/quickfind/index"
	"github.com/lexandro/quickfind/tools"
	"github.com/lexandro/quickfind/watcher"
)

// indexer crawls every configured root into the store.
type indexer struct {
	cfg    *config.Config
	store  *index.Store
	rules  *ignore.Rules
	logger *slog.Logger
}

// newIndexer compiles the configured ignore rules. A malformed pattern is
// returned as *ignore.PatternError.
func newIndexer(cfg *config.Config, store *index.Store, logger *slog.Logger) (*indexer, error) {
	rules, err := ignore.Compile(cfg.Ignore)
	if err != nil {
		return nil, fmt.Errorf("compiling ignore rules: %w", err)
	}
	return &indexer{cfg: cfg, store: store, rules: rules, logger: logger}, nil
}

// roots returns the configured roots as absolute paths.
func (ix *indexer) roots() []string {
	var roots []string
	for _, root := range ix.cfg.Roots() {
		abs, err := filepath.Abs(root)
		if err != nil {
			ix.logger.Warn("skipping root", "root", root, "error", err)
			continue
		}
		roots = append(roots, abs)
	}
	return roots
}

func (ix *indexer) matcher(root string) *ignore.Matcher {
	return ignore.NewMatcher(ignore.MatcherOptions{
		RootDir:          root,
		Rules:            ix.rules,
		RespectGitignore: ix.cfg.RespectGitignore,
	})
}

// indexAll crawls each existing root in turn. Missing roots are skipped with a
// warning. The run is only marked complete when every crawl succeeded.
func (ix *indexer) indexAll(ctx context.Context, reporter crawler.Reporter) (tools.ReindexResult, error) {
	start := time.Now()
	var result tools.ReindexResult

	for _, root := range ix.roots() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
			ix.logger.Warn("root does not exist, skipping", "root", root)
			continue
		}

		stats, err := ix.indexRoot(root, reporter)
		if err != nil {
			return result, err
		}
		result.Roots++
		result.Files += stats.Files
		result.Added += stats.Added
	}

	if err := ix.store.MarkIndexed(); err != nil {
		return result, err
	}
	result.Elapsed = time.Since(start)
	return result, nil
}

// indexRoot crawls one root inside a single transaction, rolled back on failure.
func (ix *indexer) indexRoot(root string, reporter crawler.Reporter) (crawler.Stats, error) {
	batch, err := ix.store.Batch()
	if err != nil {
		return crawler.Stats{}, err
	}

	stats, err := crawler.Crawl(crawler.Options{
		Root:     root,
		Depth:    ix.cfg.Depth,
		Matcher:  ix.matcher(root),
		Store:    batch,
		Reporter: reporter,
		Logger:   ix.logger,
	})
	if err != nil {
		if rbErr := batch.Rollback(); rbErr != nil {
			ix.logger.Error("rollback failed", "root", root, "error", rbErr)
		}
		return stats, fmt.Errorf("indexing %s: %w", root, err)
	}
	if err := batch.Commit(); err != nil {
		return stats, fmt.Errorf("indexing %s: %w", root, err)
	}

	ix.logger.Debug("root indexed", "root", root, "files", stats.Files, "added", stats.Added, "elapsed", stats.Elapsed)
	return stats, nil
}

// watch adds files created below the roots until ctx is cancelled.
func (ix *indexer) watch(ctx context.Context, verbose bool) error {
	var roots []watcher.Root
	for _, root := range ix.roots() {
		roots = append(roots, watcher.Root{Dir: root, Depth: ix.cfg.Depth, Matcher: ix.matcher(root)})
	}

	fileWatcher, err := watcher.New(roots, ix.logger)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	go fileWatcher.Start()

	done := make(chan struct{})
	go func() {
		defer close(done)
		handleWatcherEvents(fileWatcher.Events(), ix.store, ix.logger, verbose)
	}()

	<-ctx.Done()
	ix.logger.Info("stopping watcher")
	if err := fileWatcher.Close(); err != nil {
		ix.logger.Warn("closing watcher", "error", err)
	}
	<-done
	return nil
}

// handleWatcherEvents inserts each batch of created files until events is closed.
func handleWatcherEvents(events <-chan []string, store crawler.Inserter, logger *slog.Logger, verbose bool) {
	level := slog.LevelDebug
	if verbose {
		level = slog.LevelInfo
	}
	for batch := range events {
		added := 0
		for _, path := range batch {
			inserted, err := store.Insert(path)
			if err != nil {
				logger.Error("failed to add file", "path", path, "error", err)
				continue
			}
			if inserted {
				added++
				logger.Log(context.Background(), level, "added to index", "path", path)
			}
		}
		logger.Info("watch batch", "files", len(batch), "added", added)
	}
}
