package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/jkirker/Page-Exec-Timer/internal/config"
	"github.com/jkirker/Page-Exec-Timer/internal/daemon"
	"github.com/jkirker/Page-Exec-Timer/internal/domcount"
	"github.com/jkirker/Page-Exec-Timer/internal/errors"
	"github.com/jkirker/Page-Exec-Timer/internal/gitinfo"
	"github.com/jkirker/Page-Exec-Timer/internal/version"
)

const defaultConfigFile = "config.yaml"

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct {
		Addr string `help:"Listen address override (host:port)"`
		Root string `help:"Content directory override"`
	} `cmd:"" help:"Serve the content directory with timing annotations"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	DomCount struct {
		File    string `arg:"" optional:"" help:"HTML file to measure (defaults to stdin)"`
		Ceiling int    `help:"Node count above which the full walk aborts" default:"30000"`
		JSON    bool   `help:"Emit the result as JSON"`
	} `cmd:"" name:"domcount" help:"Count DOM nodes in an HTML document the way the injected script does"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	setupLogging(config.LogLevelInfo, config.LogFormatText)

	adapter := errors.NewCLIErrorAdapter(CLI.Verbose, slog.Default())

	switch ctx.Command() {
	case "serve":
		adapter.HandleError(runServe(CLI.Config, CLI.Serve.Addr, CLI.Serve.Root))
	case "init":
		adapter.HandleError(runInit(CLI.Config, CLI.Init.Force))
	case "domcount", "domcount <file>":
		adapter.HandleError(runDomCount(CLI.DomCount.File, CLI.DomCount.Ceiling, CLI.DomCount.JSON))
	case "version":
		printVersion()
	}
}

// setupLogging installs the process-wide slog handler. The serve command
// calls it again once the configured level and format are known.
func setupLogging(level config.LogLevel, format config.LogFormat) {
	slogLevel := slog.LevelInfo
	switch level {
	case config.LogLevelDebug:
		slogLevel = slog.LevelDebug
	case config.LogLevelWarn:
		slogLevel = slog.LevelWarn
	case config.LogLevelError:
		slogLevel = slog.LevelError
	}
	if CLI.Verbose {
		slogLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: slogLevel}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func runServe(configPath, addr, root string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if addr != "" {
		host, portStr, err := net.SplitHostPort(addr)
		if err != nil {
			return fmt.Errorf("invalid --addr %q: %w", addr, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid --addr port %q: %w", portStr, err)
		}
		cfg.Server.Host = host
		cfg.Server.Port = port
	}
	if root != "" {
		cfg.Content.Dir = root
	}

	setupLogging(cfg.Logging.Level, cfg.Logging.Format)

	d, err := daemon.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return d.Run(ctx)
}

// loadConfig loads the named file, or falls back to built-in defaults when
// the implicit default file is simply absent. An explicitly named file must
// exist.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigFile {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			slog.Info("no configuration file, using built-in defaults")
			return config.Default()
		}
	}
	return config.Load(path)
}

func runInit(configPath string, force bool) error {
	if err := config.Init(configPath, force); err != nil {
		return err
	}
	fmt.Printf("Configuration written to %s\n", configPath)
	return nil
}

func runDomCount(path string, ceiling int, asJSON bool) error {
	var in io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	result, err := domcount.Count(in, ceiling)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("elements:  %d\n", result.Elements)
	fmt.Printf("all nodes: %d\n", result.AllNodes)
	if result.Truncated {
		fmt.Printf("truncated: walk aborted above %d nodes\n", ceiling)
	}
	fmt.Printf("fast scan: %.2fms\n", result.FastMS)
	fmt.Printf("full walk: %.2fms\n", result.WalkMS)
	return nil
}

func printVersion() {
	commit := version.GitCommit
	if commit == "unknown" {
		// Fall back to the work tree when built without ldflags.
		if info, err := gitinfo.Lookup("."); err == nil {
			commit = info.ShortCommit()
		}
	}

	fmt.Printf("pagetimer %s\n", version.Version)
	fmt.Printf("  commit: %s\n", commit)
	fmt.Printf("  built:  %s\n", version.BuildTime)
}
