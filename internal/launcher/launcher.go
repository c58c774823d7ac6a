// Package launcher opens terminals, file managers and applications in a
// working directory. Launches are fire-and-forget: success is reported
// after a short delay unless the process has already failed.
package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/wingrid/internal/apps"
	"github.com/1broseidon/wingrid/internal/detect"
	"github.com/1broseidon/wingrid/internal/toolexec"
)

// DefaultDelay is how long a launch is watched before it is reported as
// successful.
const DefaultDelay = 500 * time.Millisecond

// Test hooks.
var (
	userHomeDir = os.UserHomeDir
)

// Result describes one launch. Path is set for file managers only.
type Result struct {
	Success    bool   `json:"success"`
	WindowName string `json:"windowName,omitempty"`
	Path       string `json:"path,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Settings tunes a Launcher.
type Settings struct {
	Delay               time.Duration
	TerminalCommands    map[string]string
	FileManagerCommands map[string]string
}

// Launcher starts detached applications.
type Launcher struct {
	runner       toolexec.Runner
	detector     *detect.Detector
	terminals    map[string]string
	fileManagers map[string]string
	delay        time.Duration
	logger       *zap.Logger
}

// New creates a Launcher. Configured commands override the built-in
// templates per tool.
func New(runner toolexec.Runner, detector *detect.Detector, settings Settings, logger *zap.Logger) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	delay := settings.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Launcher{
		runner:       runner,
		detector:     detector,
		terminals:    mergeTemplates(TerminalTemplates, settings.TerminalCommands),
		fileManagers: mergeTemplates(FileManagerTemplates, settings.FileManagerCommands),
		delay:        delay,
		logger:       logger,
	}
}

// OpenTerminal opens the detected terminal in path, or in the home
// directory when path is empty.
func (l *Launcher) OpenTerminal(path string) Result {
	tool := l.detector.Terminal()
	template, ok := l.terminals[tool]
	if !ok {
		template = tool
	}
	return l.open(Result{WindowName: apps.Terminal}, tool, template, path)
}

// OpenFileManager opens the detected file manager on path.
func (l *Launcher) OpenFileManager(path string) Result {
	tool := l.detector.FileManager()
	template, ok := l.fileManagers[tool]
	if !ok {
		template = tool + " " + dirPlaceholder
	}
	return l.open(Result{WindowName: apps.Files}, tool, template, path)
}

// OpenApp starts an arbitrary command in path. The command is split like a
// shell would and may use {{dir}}.
func (l *Launcher) OpenApp(command, path string) Result {
	command = strings.TrimSpace(command)
	res := Result{WindowName: command}
	if command == "" {
		res.Error = "no application given"
		return res
	}
	argv, err := splitCommand(command)
	if err == nil && len(argv) > 0 {
		res.WindowName = apps.Classify(filepath.Base(argv[0]))
	}
	return l.open(res, command, command, path)
}

func (l *Launcher) open(res Result, tool, template, path string) Result {
	dir, err := resolveDir(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if res.WindowName == apps.Files {
		res.Path = dir
	}

	argv, err := renderTemplate(template, dir)
	if err != nil {
		res.Error = fmt.Sprintf("invalid command for %s: %v", tool, err)
		return res
	}

	proc, err := l.runner.Start(dir, argv[0], argv[1:]...)
	if err != nil {
		l.logger.Warn("launch failed", zap.String("tool", tool), zap.Error(err))
		res.Error = err.Error()
		return res
	}

	// Exiting cleanly inside the window is fine: gnome-terminal and
	// xdg-open hand off to another process and return.
	select {
	case err := <-proc.Done:
		if err != nil {
			l.logger.Warn("launched process exited early",
				zap.String("tool", tool),
				zap.Int("pid", proc.PID),
				zap.Error(err),
			)
			res.Error = fmt.Sprintf("%s exited: %v", argv[0], err)
			return res
		}
	case <-time.After(l.delay):
	}

	res.Success = true
	return res
}

func resolveDir(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "~" || strings.HasPrefix(path, "~/") {
		home, err := userHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		if path == "" || path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return filepath.Clean(path), nil
}
