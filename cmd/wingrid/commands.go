package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/1broseidon/wingrid/internal/engine"
	"github.com/1broseidon/wingrid/internal/ipc"
	"github.com/1broseidon/wingrid/internal/tui"
)

// commonFlags are shared by the window commands.
type commonFlags struct {
	local      bool
	configPath string
	jsonOut    bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&c.local, "local", false, "Run in-process instead of through the daemon")
	fs.StringVar(&c.configPath, "config", "", "Config file path (default: ~/.config/wingrid/config.yaml)")
	fs.BoolVar(&c.jsonOut, "json", false, "Print JSON")
}

func (c *commonFlags) backend() (backend, error) {
	return resolveBackend(c.local, c.configPath)
}

// parseFlags parses args and checks the positional count. It returns a
// non-negative exit code when the command should stop.
func parseFlags(fs *flag.FlagSet, args []string, minArgs, maxArgs int) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() < minArgs || (maxArgs >= 0 && fs.NArg() > maxArgs) {
		fmt.Fprintf(os.Stderr, "%s: wrong number of arguments\n\n", fs.Name())
		fs.Usage()
		return 2
	}
	return -1
}

func newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	return fs
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "Usage: wingrid status [--json]")
	jsonOut := fs.Bool("json", false, "Print JSON")
	if code := parseFlags(fs, args, 0, 0); code >= 0 {
		return code
	}

	status, err := ipc.NewClient().WithTimeout(2 * time.Second).GetStatus()
	if err != nil {
		return fail(err)
	}
	if *jsonOut {
		if err := writeJSON(os.Stdout, status); err != nil {
			return fail(err)
		}
		return 0
	}

	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Printf("terminal:       %s\n", status.Tools.Terminal)
	fmt.Printf("file_manager:   %s\n", status.Tools.FileManager)
	for _, tool := range sortedKeys(status.Tools.Available) {
		fmt.Printf("tool %-10s %v\n", tool+":", status.Tools.Available[tool])
	}
	if last := status.LastArrange; last != nil {
		fmt.Printf("last_arrange:   %s via %s, success=%v arranged=%d",
			last.At.Format(time.RFC3339), last.Source, last.Result.Success, last.Result.Arranged)
		if last.Result.Error != "" {
			fmt.Printf(" error=%q", last.Result.Error)
		}
		fmt.Println()
	}
	return 0
}

func runWindows(args []string) int {
	fs := newFlagSet("windows", "Usage: wingrid windows [--app NAME]... [--json] [--local]")
	var common commonFlags
	common.register(fs)
	var apps stringList
	fs.Var(&apps, "app", "Also list windows of this application (repeatable)")
	if code := parseFlags(fs, args, 0, 0); code >= 0 {
		return code
	}

	b, err := common.backend()
	if err != nil {
		return fail(err)
	}
	records, err := b.ListWindows(apps)
	if err != nil {
		return fail(err)
	}
	if common.jsonOut {
		if err := writeJSON(os.Stdout, records); err != nil {
			return fail(err)
		}
		return 0
	}
	if len(records) == 0 {
		fmt.Println("no windows")
		return 0
	}
	fmt.Println(renderWindows(records))
	return 0
}

func runDisplays(args []string) int {
	fs := newFlagSet("displays", "Usage: wingrid displays [--json] [--local]")
	var common commonFlags
	common.register(fs)
	if code := parseFlags(fs, args, 0, 0); code >= 0 {
		return code
	}

	b, err := common.backend()
	if err != nil {
		return fail(err)
	}
	displays, err := b.GetDisplays()
	if err != nil {
		return fail(err)
	}
	if common.jsonOut {
		if err := writeJSON(os.Stdout, displays); err != nil {
			return fail(err)
		}
		return 0
	}
	if len(displays) == 0 {
		fmt.Println("no displays")
		return 0
	}
	fmt.Println(renderDisplays(displays))
	return 0
}

func runArrange(args []string) int {
	fs := newFlagSet("arrange", "Usage: wingrid arrange [--columns N] [--rows N] [--display N] [--preset NAME] [--app NAME]...")
	var common commonFlags
	common.register(fs)
	var apps stringList
	fs.Var(&apps, "app", "Also arrange windows of this application (repeatable)")
	var opts engine.Options
	fs.IntVar(&opts.Columns, "columns", 0, "Force the column count")
	fs.IntVar(&opts.Rows, "rows", 0, "Force the row count")
	fs.IntVar(&opts.DisplayIndex, "display", 0, "Move every window to this display (1-based)")
	fs.StringVar(&opts.Preset, "preset", "", "Use a named grid preset")
	if code := parseFlags(fs, args, 0, 0); code >= 0 {
		return code
	}
	if opts.Columns < 0 || opts.Rows < 0 || opts.DisplayIndex < 0 {
		fmt.Fprintln(os.Stderr, "arrange: --columns, --rows and --display must not be negative")
		return 2
	}

	b, err := common.backend()
	if err != nil {
		return fail(err)
	}
	res, err := b.ArrangeGrid(apps, opts)
	if err != nil {
		return fail(err)
	}
	if common.jsonOut {
		if err := writeJSON(os.Stdout, res); err != nil {
			return fail(err)
		}
	} else if res.Success {
		fmt.Printf("arranged %d windows\n", res.Arranged)
	}
	if !res.Success {
		fmt.Fprintf(os.Stderr, "arrange failed: %s\n", res.Error)
		return 1
	}
	return 0
}

func runActivate(args []string) int {
	fs := newFlagSet("activate", "Usage: wingrid activate [--local] <window-id>")
	var common commonFlags
	common.register(fs)
	if code := parseFlags(fs, args, 1, 1); code >= 0 {
		return code
	}

	b, err := common.backend()
	if err != nil {
		return fail(err)
	}
	ok, err := b.ActivateWindow(fs.Arg(0))
	if err != nil {
		return fail(err)
	}
	if common.jsonOut {
		return jsonExit(ipc.ActivateData{Success: ok}, ok)
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "could not activate %s\n", fs.Arg(0))
		return 1
	}
	return 0
}

func runClose(args []string) int {
	fs := newFlagSet("close", "Usage: wingrid close [--local] <window-id>")
	var common commonFlags
	common.register(fs)
	if code := parseFlags(fs, args, 1, 1); code >= 0 {
		return code
	}

	b, err := common.backend()
	if err != nil {
		return fail(err)
	}
	res, err := b.CloseWindow(fs.Arg(0))
	if err != nil {
		return fail(err)
	}
	if common.jsonOut {
		return jsonExit(res, res.Success)
	}
	return 0
}

func runOpen(args []string) int {
	fs := newFlagSet("open", "Usage: wingrid open terminal|files [path]\n       wingrid open app <command> [path]")
	var common commonFlags
	common.register(fs)
	if code := parseFlags(fs, args, 1, 3); code >= 0 {
		return code
	}

	kind, rest := fs.Arg(0), fs.Args()[1:]
	req, err := parseOpenArgs(kind, rest)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return 2
	}

	b, err := common.backend()
	if err != nil {
		return fail(err)
	}

	var res engine.OpenResult
	switch req.kind {
	case openTerminal:
		res, err = b.OpenTerminal(req.path)
	case openFiles:
		res, err = b.OpenFileManager(req.path)
	default:
		res, err = b.OpenApp(req.app, req.path)
	}
	if err != nil {
		return fail(err)
	}
	if common.jsonOut {
		return jsonExit(res, res.Success)
	}
	if !res.Success {
		fmt.Fprintf(os.Stderr, "open failed: %s\n", res.Error)
		return 1
	}
	fmt.Printf("opened %s\n", res.WindowName)
	return 0
}

type openKind int

const (
	openTerminal openKind = iota
	openFiles
	openApp
)

type openRequest struct {
	kind openKind
	app  string
	path string
}

func parseOpenArgs(kind string, rest []string) (openRequest, error) {
	switch kind {
	case "terminal", "term":
		if len(rest) > 1 {
			return openRequest{}, fmt.Errorf("open terminal takes at most one path")
		}
		return openRequest{kind: openTerminal, path: first(rest)}, nil
	case "files", "file-manager":
		if len(rest) > 1 {
			return openRequest{}, fmt.Errorf("open files takes at most one path")
		}
		return openRequest{kind: openFiles, path: first(rest)}, nil
	case "app":
		if len(rest) == 0 || rest[0] == "" {
			return openRequest{}, fmt.Errorf("open app requires a command")
		}
		return openRequest{kind: openApp, app: rest[0], path: first(rest[1:])}, nil
	default:
		return openRequest{}, fmt.Errorf("unknown open target %q (want terminal, files or app)", kind)
	}
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func runPick(args []string) int {
	fs := newFlagSet("pick", "Usage: wingrid pick [--app NAME]... [--local]")
	var common commonFlags
	common.register(fs)
	var apps stringList
	fs.Var(&apps, "app", "Also list windows of this application (repeatable)")
	if code := parseFlags(fs, args, 0, 0); code >= 0 {
		return code
	}

	b, err := common.backend()
	if err != nil {
		return fail(err)
	}
	chosen, err := tui.Run(b, apps)
	if err != nil {
		return fail(err)
	}
	if chosen != nil && common.jsonOut {
		if err := writeJSON(os.Stdout, chosen); err != nil {
			return fail(err)
		}
	}
	return 0
}

func runPresets(args []string) int {
	fs := newFlagSet("presets", "Usage: wingrid presets [--json] [--local]")
	var common commonFlags
	common.register(fs)
	if code := parseFlags(fs, args, 0, 0); code >= 0 {
		return code
	}

	b, err := common.backend()
	if err != nil {
		return fail(err)
	}
	data, err := b.ListPresets()
	if err != nil {
		return fail(err)
	}
	if common.jsonOut {
		if err := writeJSON(os.Stdout, data); err != nil {
			return fail(err)
		}
		return 0
	}
	fmt.Println(renderPresets(data.Presets))
	return 0
}

// jsonExit prints v and returns 0 when success is set, 1 otherwise.
func jsonExit(v interface{}, success bool) int {
	if err := writeJSON(os.Stdout, v); err != nil {
		return fail(err)
	}
	if !success {
		return 1
	}
	return 0
}
