package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// runResult is the outcome of one palette process. err is set only when
// the process could not run at all; a non-zero exit lands in exitCode.
type runResult struct {
	out      string
	stderr   string
	exitCode int
	err      error
}

type runFunc func(name string, args []string, stdin string) runResult

func execRun(name string, args []string, stdin string) runResult {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	res := runResult{out: string(out), stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.exitCode = exitErr.ExitCode()
		} else {
			res.err = err
		}
	}
	return res
}

type dmenuLike struct {
	command string
	caps    Capabilities
	run     runFunc
}

func newDmenuLike(name string) (*dmenuLike, bool) {
	var caps Capabilities
	switch name {
	case "rofi":
		caps = Capabilities{Icons: true, Markup: true, NonSelectable: true, CustomKeys: true, IndexOutput: true, MessageBar: true}
	case "fuzzel":
		caps = Capabilities{Icons: true, IndexOutput: true}
	case "wofi":
		caps = Capabilities{Icons: true, Markup: true}
	case "dmenu":
	default:
		return nil, false
	}
	return &dmenuLike{command: name, caps: caps, run: execRun}, true
}

func (b *dmenuLike) Capabilities() Capabilities {
	return b.caps
}

func (b *dmenuLike) Show(prompt string, items []Item, message string) (SelectResult, error) {
	if len(items) == 0 {
		return SelectResult{}, fmt.Errorf("palette: no items to show")
	}

	display := make([]Item, len(items))
	copy(display, items)
	if !b.caps.IndexOutput {
		disambiguate(display)
	}

	res := b.run(b.command, b.args(prompt, message, display), b.input(display))
	if res.err != nil {
		return SelectResult{}, fmt.Errorf("%s failed: %w", b.command, res.err)
	}

	selection := strings.TrimSpace(res.out)
	if selection == "" && (res.exitCode == ExitCancelled || res.exitCode == 130) {
		return SelectResult{}, ErrCancelled
	}
	if res.exitCode != ExitNormal && res.exitCode != ExitCustom1 && res.exitCode != ExitCustom2 {
		if msg := strings.TrimSpace(res.stderr); msg != "" {
			return SelectResult{}, fmt.Errorf("%s failed: %s", b.command, msg)
		}
		return SelectResult{}, fmt.Errorf("%s exited with status %d", b.command, res.exitCode)
	}
	if selection == "" {
		return SelectResult{}, ErrCancelled
	}

	item, err := b.parseSelection(selection, display)
	if err != nil {
		return SelectResult{}, err
	}
	return SelectResult{Item: item, ExitCode: res.exitCode}, nil
}

func (b *dmenuLike) args(prompt, message string, items []Item) []string {
	var args []string

	switch b.command {
	case "rofi":
		args = []string{"-dmenu", "-i", "-format", "i", "-no-custom"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		args = append(args, "-markup-rows", "-show-icons")
		if active := activeRows(items); active != "" {
			args = append(args, "-a", active)
		}
		if row, ok := firstSelectable(items); ok {
			args = append(args, "-selected-row", strconv.Itoa(row))
		}
		args = append(args, "-kb-custom-1", "Alt+Return", "-kb-custom-2", "Alt+d")
		if message != "" {
			args = append(args, "-mesg", message)
		}
	case "fuzzel":
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case "wofi":
		args = []string{"--dmenu", "--allow-markup", "--allow-images"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	default:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}
	return args
}

func (b *dmenuLike) input(items []Item) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = b.formatItem(item)
	}
	return strings.Join(lines, "\n")
}

func (b *dmenuLike) formatItem(item Item) string {
	label := sanitizeLabel(item.Label)
	if b.caps.Markup {
		label = html.EscapeString(label)
		if item.IsHeader {
			label = "<b>" + label + "</b>"
		}
	}
	if b.command != "rofi" {
		return label
	}

	// rofi row properties: one NUL, then key\x1fvalue pairs.
	var attrs []string
	if item.IsHeader {
		attrs = append(attrs, "nonselectable", "true")
	}
	if item.Icon != "" {
		attrs = append(attrs, "icon", sanitizeRofiField(item.Icon))
	}
	if item.Info != "" {
		attrs = append(attrs, "meta", sanitizeRofiField(item.Info))
	}
	if len(attrs) == 0 {
		return label
	}
	return label + "\x00" + strings.Join(attrs, "\x1f")
}

func (b *dmenuLike) parseSelection(selection string, items []Item) (Item, error) {
	if b.caps.IndexOutput {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for _, item := range items {
		if sanitizeLabel(item.Label) == selection {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

// disambiguate suffixes repeated labels so text-matching backends can
// tell them apart.
func disambiguate(items []Item) {
	seen := make(map[string]int)
	for i := range items {
		if items[i].IsHeader {
			continue
		}
		key := sanitizeLabel(items[i].Label)
		if count := seen[key]; count > 0 {
			items[i].Label = fmt.Sprintf("%s (%d)", key, count+1)
		}
		seen[key]++
	}
}

func activeRows(items []Item) string {
	var rows []string
	for i, item := range items {
		if item.IsActive && !item.IsHeader {
			rows = append(rows, strconv.Itoa(i))
		}
	}
	return strings.Join(rows, ",")
}

func firstSelectable(items []Item) (int, bool) {
	for i, item := range items {
		if !item.IsHeader {
			return i, true
		}
	}
	return 0, false
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeRofiField(value string) string {
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	return sanitizeLabel(value)
}
