package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/lexandro/quickfind/config"
	"github.com/lexandro/quickfind/crawler"
	"github.com/lexandro/quickfind/index"
	"github.com/lexandro/quickfind/opener"
	"github.com/lexandro/quickfind/register"
	"github.com/lexandro/quickfind/server"
	"github.com/lexandro/quickfind/session"
	"github.com/lexandro/quickfind/tools"
	"github.com/lexandro/quickfind/tui"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "register" {
		serverName := register.DeriveServerName(os.Args[0])
		if err := register.Run(serverName, os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if errors.Is(err, register.ErrUsage) {
				register.Usage(os.Stderr, filepath.Base(os.Args[0]))
			}
			os.Exit(1)
		}
		return
	}

	// Parse CLI flags
	var indexMode, verbose, watch, mcpMode bool
	var configPath, dbPath, logLevel, logFile string

	flag.BoolVar(&indexMode, "i", false, "Index all configured roots and exit")
	flag.BoolVar(&indexMode, "index", false, "Index all configured roots and exit")
	flag.BoolVar(&verbose, "v", false, "Log every discovered and ignored path while indexing")
	flag.BoolVar(&verbose, "verbose", false, "Log every discovered and ignored path while indexing")
	flag.BoolVar(&watch, "watch", false, "With -i: keep running and add newly created files")
	flag.BoolVar(&mcpMode, "mcp", false, "Serve the index as an MCP server on stdio")
	flag.StringVar(&configPath, "config", "", "Config file path (default: ~/.quickfind/config.toml)")
	flag.StringVar(&dbPath, "db", "", "Index database path (default: ~/.quickfind/db.sqlite)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: stderr when indexing, ~/.quickfind/quickfind.log otherwise)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [term]\n       %s register [flags] project [dir] | user\n\nFlags:\n",
			filepath.Base(os.Args[0]), filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if watch && !indexMode {
		fmt.Fprintln(os.Stderr, "Error: -watch requires -i")
		os.Exit(2)
	}

	// The TUI owns the terminal and MCP owns stdout, so those modes log to a file.
	if logFile == "" && !indexMode {
		dir, err := config.Dir()
		if err == nil && os.MkdirAll(dir, 0o755) == nil {
			logFile = filepath.Join(dir, "quickfind.log")
		}
	}
	logger := setupLogger(logLevel, logFile)

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if dbPath == "" {
		dbPath, err = index.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving database path: %v\n", err)
			os.Exit(1)
		}
	}
	store, err := index.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	logger.Debug("starting quickfind", "db", dbPath, "roots", cfg.Include, "depth", cfg.Depth)

	switch {
	case indexMode:
		err = runIndex(cfg, store, logger, verbose, watch)
	case mcpMode:
		err = runMCP(cfg, store, logger)
	default:
		term := strings.Join(flag.Args(), " ")
		err = runInteractive(cfg, store, logger, term)
	}
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	cfg, created, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if created {
		fmt.Fprintf(os.Stderr, "Created default config at %s\n", path)
	}
	return cfg, nil
}

func runIndex(cfg *config.Config, store *index.Store, logger *slog.Logger, verbose, watch bool) error {
	ix, err := newIndexer(cfg, store, logger)
	if err != nil {
		return err
	}

	var reporter crawler.Reporter = crawler.NewLineReporter(os.Stdout)
	if verbose {
		reporter = &crawler.VerboseReporter{Logger: logger, Out: os.Stdout}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := ix.indexAll(ctx, reporter); err != nil {
		return err
	}
	if !watch {
		return nil
	}
	return ix.watch(ctx, verbose)
}

func runMCP(cfg *config.Config, store *index.Store, logger *slog.Logger) error {
	ix, err := newIndexer(cfg, store, logger)
	if err != nil {
		return err
	}

	handlers := server.Handlers{
		Search:  &tools.SearchHandler{Store: store, Logger: logger},
		Glob:    &tools.GlobHandler{Store: store, Logger: logger},
		History: &tools.HistoryHandler{Store: store, Logger: logger},
		Status: &tools.StatusHandler{
			Store:     store,
			Roots:     ix.roots(),
			StartTime: time.Now(),
			Logger:    logger,
		},
		Reindex: &tools.ReindexHandler{
			Logger: logger,
			DoReindex: func(ctx context.Context) (tools.ReindexResult, error) {
				return ix.indexAll(ctx, crawler.NopReporter{})
			},
		},
	}

	logger.Info("MCP server starting on stdio")
	if err := server.Setup(handlers).Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server: %w", err)
	}
	return nil
}

func runInteractive(cfg *config.Config, store *index.Store, logger *slog.Logger, term string) error {
	s := session.New(store, opener.New(), logger, term)
	return tui.Run(s, tui.Options{
		HighlightColor: cfg.HighlightColor,
		Editor:         cfg.Editor,
		Logger:         logger,
	})
}

// setupLogger creates an slog.Logger writing to stderr or a file.
func setupLogger(level string, logFile string) *slog.Logger {
	var writer *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	} else {
		writer = os.Stderr
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
