package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "displays":
		os.Exit(runDisplays(os.Args[2:]))
	case "arrange":
		os.Exit(runArrange(os.Args[2:]))
	case "activate":
		os.Exit(runActivate(os.Args[2:]))
	case "close":
		os.Exit(runClose(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "pick":
		os.Exit(runPick(os.Args[2:]))
	case "menu":
		os.Exit(runMenu(os.Args[2:]))
	case "presets":
		os.Exit(runPresets(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wingrid <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the wingrid daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  windows             List terminal, file manager and --app windows")
	fmt.Fprintln(w, "  displays            List displays and their work areas")
	fmt.Fprintln(w, "  arrange             Tile windows into a grid")
	fmt.Fprintln(w, "  activate <id>       Bring a window to the front")
	fmt.Fprintln(w, "  close <id>          Close a window")
	fmt.Fprintln(w, "  open terminal|files|app")
	fmt.Fprintln(w, "                      Open a terminal, file manager or application")
	fmt.Fprintln(w, "  pick                Interactive window picker")
	fmt.Fprintln(w, "  menu                Window switcher in rofi, fuzzel, wofi or dmenu")
	fmt.Fprintln(w, "  presets             List grid presets")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config init         Write a config file (interactive)")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Window commands talk to a running daemon and fall back to running")
	fmt.Fprintln(w, "in-process when none is reachable (force with --local).")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'wingrid <command> --help' for command-specific options.")
}
