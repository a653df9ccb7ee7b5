// Command elinspect describes page elements for pasting into prompts and
// tickets.
//
// Usage:
//
//	elinspect -url https://example.com                 # pick an element by clicking it
//	elinspect -url https://example.com -selector h1    # describe without interaction
//	elinspect -html page.html -selector "#app > p"     # describe static markup ("-" reads stdin)
//	elinspect -config elinspect.yaml -target login     # inspect a configured target
//	elinspect -mcp                                     # serve MCP tools over stdio
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/elinspect/clipboard"
	"github.com/hazyhaar/elinspect/format"
	"github.com/hazyhaar/elinspect/inspector"
)

const version = "0.1.0"

type flags struct {
	config   string
	url      string
	html     string
	selector string
	target   string
	format   string
	synopsis bool
	markdown bool
	copy     bool
	mcp      bool
	targets  string
	save     bool
	remote   string
	headless bool
	notify   bool
}

var errUsage = errors.New("usage: elinspect -url <url> [-selector <css>] | -html <file> -selector <css> | -target <id> | -mcp")

func main() {
	_ = godotenv.Load()

	var f flags
	flag.StringVar(&f.config, "config", "", "path to elinspect.yaml config file")
	flag.StringVar(&f.url, "url", "", "page to inspect")
	flag.StringVar(&f.html, "html", "", "HTML file to describe (- for stdin)")
	flag.StringVar(&f.selector, "selector", "", "CSS selector; skips interactive picking")
	flag.StringVar(&f.target, "target", "", "configured target id")
	flag.StringVar(&f.format, "format", os.Getenv("ELINSPECT_FORMAT"), "output layout: compact, verbose, keyvalue")
	flag.BoolVar(&f.synopsis, "synopsis", false, "compact layout: one-line markup synopsis")
	flag.BoolVar(&f.markdown, "markdown", false, "verbose layout: append rendered Markdown")
	flag.BoolVar(&f.copy, "copy", false, "copy one-shot descriptions to the system clipboard")
	flag.BoolVar(&f.mcp, "mcp", false, "serve MCP tools over stdio")
	flag.StringVar(&f.targets, "targets-db", "", "SQLite database of inspect targets")
	flag.BoolVar(&f.save, "save-target", false, "store -target/-url/-format in -targets-db and exit")
	flag.StringVar(&f.remote, "remote", os.Getenv("ELINSPECT_CHROME_REMOTE"), "DevTools WebSocket URL of a running Chrome")
	flag.BoolVar(&f.headless, "headless", false, "launch Chrome headless")
	flag.BoolVar(&f.notify, "notify-json", false, "also write notifications to stderr as JSON lines")
	logLevel := flag.String("log-level", envOr("ELINSPECT_LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := run(ctx, logger, f)
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	case err != nil:
		logger.Error("elinspect: fatal", "error", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func run(ctx context.Context, logger *slog.Logger, f flags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	opts, err := applyFlags(inspector.OptionsFrom(cfg), f)
	if err != nil {
		return err
	}

	if f.targets != "" {
		db, err := inspector.OpenTargetsDB(f.targets)
		if err != nil {
			return err
		}
		defer db.Close()
		if f.save {
			return saveTarget(ctx, db, f)
		}
		targets, err := inspector.LoadTargets(ctx, db)
		if err != nil {
			return err
		}
		cfg.Targets = append(cfg.Targets, targets...)
	}

	if f.target != "" {
		t, ok := findTarget(cfg.Targets, f.target)
		if !ok {
			return fmt.Errorf("unknown target %q", f.target)
		}
		f.url = t.URL
		if opts, err = applyFlags(inspector.OptionsFrom(cfg).ForTarget(t), f); err != nil {
			return err
		}
	}

	switch {
	case f.mcp:
		return runMCP(ctx, logger, cfg)
	case f.html != "":
		return runHTML(ctx, logger, f, opts)
	case f.url != "":
		return runURL(ctx, logger, cfg, f, opts)
	}
	return errUsage
}

func loadConfig(f flags) (*inspector.Config, error) {
	cfg := inspector.DefaultConfig()
	if f.config != "" {
		var err error
		if cfg, err = inspector.LoadConfigFile(f.config); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if f.remote != "" {
		cfg.Browser.Remote = f.remote
	}
	if f.headless {
		cfg.Browser.Headless = true
	}
	if f.notify {
		cfg.NotifyJSON = true
	}
	return cfg, nil
}

// applyFlags layers the command-line layout flags over opts.
func applyFlags(opts inspector.Options, f flags) (inspector.Options, error) {
	if f.format != "" {
		kind, err := format.ParseKind(f.format)
		if err != nil {
			return opts, err
		}
		opts.Format = kind
	}
	opts.Synopsis = opts.Synopsis || f.synopsis
	opts.Markdown = opts.Markdown || f.markdown
	return opts, nil
}

func findTarget(targets []inspector.Target, id string) (inspector.Target, bool) {
	for _, t := range targets {
		if t.ID == id {
			return t, true
		}
	}
	return inspector.Target{}, false
}

func saveTarget(ctx context.Context, db *sql.DB, f flags) error {
	if f.target == "" || f.url == "" {
		return errors.New("-save-target needs -target and -url")
	}
	return inspector.SaveTarget(ctx, db, inspector.Target{ID: f.target, URL: f.url, Format: f.format})
}

// emit prints text, or copies it when -copy is set. Printing is the
// fallback when no system clipboard exists.
func emit(ctx context.Context, logger *slog.Logger, f flags, text string) {
	if !f.copy {
		fmt.Fprintln(os.Stdout, text)
		return
	}
	sink := clipboard.NewSink(clipboard.System, clipboard.Stream(os.Stdout), logger)
	if !sink.Copy(ctx, text) {
		logger.Warn("elinspect: copy failed")
	}
}

func runHTML(ctx context.Context, logger *slog.Logger, f flags, opts inspector.Options) error {
	if f.selector == "" {
		return errors.New("-html needs -selector")
	}
	var r io.Reader = os.Stdin
	if f.html != "-" {
		file, err := os.Open(f.html)
		if err != nil {
			return err
		}
		defer file.Close()
		r = file
	}
	res, err := inspector.DescribeHTML(r, f.selector, opts)
	if err != nil {
		return err
	}
	emit(ctx, logger, f, res.Text)
	return nil
}

func newInspector(cfg *inspector.Config, logger *slog.Logger) *inspector.Inspector {
	opts := []inspector.Option{inspector.WithClipboard(clipboard.System)}
	if cfg.NotifyJSON {
		opts = append(opts, inspector.WithNotifyLines(os.Stderr))
	}
	return inspector.New(cfg, logger, opts...)
}

func runURL(ctx context.Context, logger *slog.Logger, cfg *inspector.Config, f flags, opts inspector.Options) error {
	in := newInspector(cfg, logger)
	if err := in.Start(ctx); err != nil {
		return err
	}
	defer in.Stop()

	if f.selector != "" {
		res, err := in.DescribeURL(ctx, f.url, f.selector, opts)
		if err != nil {
			return err
		}
		emit(ctx, logger, f, res.Text)
		return nil
	}

	out, err := in.Inspect(ctx, f.url, opts)
	if err != nil {
		return err
	}
	switch {
	case out.Cancelled:
		logger.Info("elinspect: cancelled")
	case out.Text != "":
		fmt.Fprintln(os.Stdout, out.Text)
	}
	return nil
}

func runMCP(ctx context.Context, logger *slog.Logger, cfg *inspector.Config) error {
	srv := mcp.NewServer(&mcp.Implementation{Name: "elinspect", Version: version}, nil)

	in := newInspector(cfg, logger)
	if err := in.Start(ctx); err != nil {
		logger.Warn("elinspect: browser unavailable, live tools will fail", "error", err)
	} else {
		defer in.Stop()
	}
	in.RegisterMCP(srv)

	logger.Info("elinspect: serving mcp on stdio")
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

