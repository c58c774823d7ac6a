// Package windows discovers live windows and actuates them through
// wmctrl, xdotool and ps.
package windows

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/wingrid/internal/apps"
	"github.com/1broseidon/wingrid/internal/detect"
	"github.com/1broseidon/wingrid/internal/toolexec"
)

// Default tool budgets.
const (
	DefaultListTimeout   = 5 * time.Second
	DefaultActionTimeout = 2 * time.Second
)

// Timeouts bounds external tool calls.
type Timeouts struct {
	List   time.Duration
	Action time.Duration
}

// DefaultTimeouts returns the built-in budgets.
func DefaultTimeouts() Timeouts {
	return Timeouts{List: DefaultListTimeout, Action: DefaultActionTimeout}
}

func (t Timeouts) orDefault() Timeouts {
	if t.List <= 0 {
		t.List = DefaultListTimeout
	}
	if t.Action <= 0 {
		t.Action = DefaultActionTimeout
	}
	return t
}

// Record is one live window at enumeration time. Index is 1-based per
// AppName in enumeration order and is not stable across calls.
type Record struct {
	ID      string `json:"id"`
	PID     int    `json:"-"`
	Title   string `json:"title"`
	AppName string `json:"applicationName"`
	Index   int    `json:"windowIndex"`
}

// wmctrl -lp: <0xID> <desktop> <pid> <host> <title...>
var listLineRe = regexp.MustCompile(`^(0x[0-9a-fA-F]+)\s+(-?\d+)\s+(\d+)\s+(\S+)\s?(.*)$`)

type listedWindow struct {
	id    string
	pid   int
	title string
}

func parseListLine(line string) (listedWindow, bool) {
	m := listLineRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return listedWindow{}, false
	}
	pid, err := strconv.Atoi(m[3])
	if err != nil {
		return listedWindow{}, false
	}
	return listedWindow{id: m[1], pid: pid, title: strings.TrimSpace(m[5])}, true
}

// Enumerator lists and classifies windows.
type Enumerator struct {
	runner     toolexec.Runner
	classifier *apps.Classifier
	timeouts   Timeouts
	logger     *zap.Logger
}

// NewEnumerator creates an Enumerator. A nil classifier uses the built-in
// tables; a nil logger discards output.
func NewEnumerator(runner toolexec.Runner, classifier *apps.Classifier, timeouts Timeouts, logger *zap.Logger) *Enumerator {
	if classifier == nil {
		classifier = apps.Default
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enumerator{
		runner:     runner,
		classifier: classifier,
		timeouts:   timeouts.orDefault(),
		logger:     logger,
	}
}

// List returns Terminal and Files windows plus windows whose application
// or process name equals or starts with one of targets. The result is
// never nil.
func (e *Enumerator) List(targets []string) []Record {
	records := []Record{}
	if !e.runner.Exists(detect.ListTool) {
		e.logger.Debug("window listing tool missing", zap.String("tool", detect.ListTool))
		return records
	}

	res := e.runner.Run(e.timeouts.List, detect.ListTool, "-lp")
	counts := make(map[string]int)
	skipped, dropped := 0, 0

	for _, line := range res.Lines() {
		w, ok := parseListLine(line)
		if !ok {
			skipped++
			continue
		}

		process := e.processName(w.pid)
		if process == "" {
			dropped++
			continue
		}

		app := e.classifier.Classify(process)
		if !keep(app, process, targets) {
			continue
		}

		counts[app]++
		records = append(records, Record{
			ID:      w.id,
			PID:     w.pid,
			Title:   w.title,
			AppName: app,
			Index:   counts[app],
		})
	}

	e.logger.Debug("enumerated windows",
		zap.Int("kept", len(records)),
		zap.Int("unparsed", skipped),
		zap.Int("unresolved", dropped),
	)
	return records
}

// commLimit is the visible length of the kernel's comm field.
const commLimit = 15

// processName returns "" when the process cannot be named. A comm value
// at the kernel limit may be cut short, so the executable named in the
// command line is used instead when it extends comm.
func (e *Enumerator) processName(pid int) string {
	if pid <= 0 {
		return ""
	}
	p := strconv.Itoa(pid)
	res := e.runner.Run(e.timeouts.Action, detect.ProcessTool, "-p", p, "-o", "comm=")
	if !res.OK {
		return ""
	}
	comm := strings.TrimSpace(res.Output)
	if len(comm) < commLimit {
		return comm
	}

	full := e.runner.Run(e.timeouts.Action, detect.ProcessTool, "-p", p, "-o", "args=")
	if name := executableName(full.Output); full.OK && strings.HasPrefix(name, comm) {
		return name
	}
	return comm
}

// executableName returns the base name of the first word of a command
// line.
func executableName(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}
	return filepath.Base(fields[0])
}

func keep(app, process string, targets []string) bool {
	if apps.IsBuiltin(app) {
		return true
	}
	for _, t := range targets {
		if t == "" {
			continue
		}
		if strings.HasPrefix(app, t) || strings.HasPrefix(process, t) {
			return true
		}
	}
	return false
}
