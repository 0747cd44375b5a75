package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/soochol/textractor/internal/api"
	"github.com/soochol/textractor/internal/batch"
	"github.com/soochol/textractor/internal/config"
	"github.com/soochol/textractor/internal/extract"
	"github.com/soochol/textractor/internal/tools"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const usage = `textractor extracts plain text from documents.

Usage:
  textractor serve [-config path]   run the HTTP API
  textractor extract [-config path] <path>   print the text of a file
  textractor detect [-config path] <path>    print the detected format of a file
  textractor mcp [-config path]     serve MCP tools over stdio
  textractor version
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "serve":
		serve(args)
	case "extract":
		cfg, rest := fileCommand("extract", args)
		os.Exit(extractFile(newDispatcher(cfg), rest, os.Stdout, os.Stderr))
	case "detect":
		_, rest := fileCommand("detect", args)
		os.Exit(detectFile(rest, os.Stdout, os.Stderr))
	case "mcp":
		serveMCP(args)
	case "version", "-v", "--version":
		fmt.Println("textractor " + version)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
}

// loadConfig reads .env, the YAML file (config.yaml when path is empty) and
// TEXTRACTOR_* overrides, then installs the configured default logger.
func loadConfig(path string) *config.Config {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("env error", "err", err)
		os.Exit(1)
	}

	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(path)
	}
	if err == nil {
		err = cfg.ApplyEnv()
	}
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	slog.SetDefault(cfg.Log.NewLogger(os.Stderr))
	return cfg
}

func newDispatcher(cfg *config.Config) *extract.Dispatcher {
	return extract.NewDispatcher(extract.Options{
		MaxEntryBytes: cfg.Extract.MaxEntryBytes,
		MaxXMLDepth:   cfg.Extract.MaxXMLDepth,
		PDFFallback:   cfg.Extract.PDFFallback,
	})
}

func serve(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.yaml")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	logger := slog.Default()

	agg := batch.New(newDispatcher(cfg),
		batch.WithWorkers(cfg.Extract.Workers),
		batch.WithLogger(logger.With("component", "batch")),
	)
	srv := api.NewServer(agg)
	srv.SetVersion(version)
	srv.SetLimits(cfg.Server.MaxRequestBytes, cfg.Server.MaxFileBytes)
	srv.SetLogger(logger.With("component", "api"))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown error", "err", err)
		}
	}()

	slog.Info("starting textractor server", "addr", addr, "version", version, "workers", cfg.Extract.Workers)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func serveMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.yaml")
	fs.Parse(args)

	cfg := loadConfig(*configPath)

	srv := mcp.NewServer(&mcp.Implementation{Name: "textractor", Version: version}, nil)
	tools.RegisterMCP(srv, tools.DefaultRegistry(newDispatcher(cfg), cfg.Server.MaxFileBytes))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("mcp server error", "err", err)
		os.Exit(1)
	}
}

// Exit codes of the extract and detect commands.
const (
	exitOK          = 0
	exitFailed      = 1
	exitUnsupported = 2
)

// fileCommand parses the flags shared by extract and detect and loads the
// configuration, returning the remaining arguments.
func fileCommand(name string, args []string) (*config.Config, []string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.yaml")
	fs.Parse(args)
	return loadConfig(*configPath), fs.Args()
}

func readPathArg(name string, args []string, stderr io.Writer) ([]byte, bool) {
	if len(args) != 1 {
		fmt.Fprintf(stderr, "usage: textractor %s <path>\n", name)
		return nil, false
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return nil, false
	}
	return data, true
}

func extractFile(d *extract.Dispatcher, args []string, stdout, stderr io.Writer) int {
	data, ok := readPathArg("extract", args, stderr)
	if !ok {
		return exitFailed
	}

	out := d.Extract(data)
	switch out.Status {
	case extract.StatusExtracted:
		io.WriteString(stdout, out.Text)
		return exitOK
	case extract.StatusUnsupported:
		fmt.Fprintln(stderr, "Unsupported file type")
		return exitUnsupported
	default:
		fmt.Fprintf(stderr, "extract: %v\n", out.Err)
		return exitFailed
	}
}

func detectFile(args []string, stdout, stderr io.Writer) int {
	data, ok := readPathArg("detect", args, stderr)
	if !ok {
		return exitFailed
	}

	f := extract.Detect(data)
	supported := "unsupported"
	if extract.Supported(f) {
		supported = "supported"
	}
	fmt.Fprintf(stdout, "%s\t%s\t%s\n", f, f.MIME(), supported)
	return exitOK
}
