package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/1broseidon/wingrid/internal/engine"
	"github.com/1broseidon/wingrid/internal/logging"
	"github.com/1broseidon/wingrid/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wingrid mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'wingrid mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	fs := newFlagSet("serve", "Usage: wingrid mcp serve [--config PATH]\n\nStart the MCP server on stdio. Designed to be invoked by MCP clients.")
	configPath := fs.String("config", "", "Config file path (default: ~/.config/wingrid/config.yaml)")
	if code := parseFlags(fs, args, 0, 0); code >= 0 {
		return code
	}

	res, err := loadConfig(*configPath)
	if err != nil {
		return fail(fmt.Errorf("failed to load config: %w", err))
	}

	logger := logging.NewDefault(res.Config.LogLevel)
	defer logger.Sync()

	server := mcp.NewServer(engine.New(res.Config, engine.Deps{Logger: logger}), logger.Named("mcp"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("MCP server error", zap.Error(err))
		return 1
	}
	return 0
}
