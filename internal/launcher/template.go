package launcher

import (
	"fmt"
	"strings"
)

// dirPlaceholder is replaced with the working directory after the
// template has been split, so paths with spaces stay one argument.
const dirPlaceholder = "{{dir}}"

// TerminalTemplates holds each terminal's "open in directory" syntax.
var TerminalTemplates = map[string]string{
	"gnome-terminal": "gnome-terminal --working-directory={{dir}}",
	"konsole":        "konsole --workdir {{dir}}",
	"xfce4-terminal": "xfce4-terminal --working-directory={{dir}}",
	"mate-terminal":  "mate-terminal --working-directory={{dir}}",
	"tilix":          "tilix --working-directory={{dir}}",
	"terminator":     "terminator --working-directory={{dir}}",
	"alacritty":      "alacritty --working-directory {{dir}}",
	"kitty":          "kitty --directory {{dir}}",
	"wezterm":        "wezterm start --cwd {{dir}}",
	"ghostty":        "ghostty --working-directory={{dir}}",
	"foot":           "foot --working-directory={{dir}}",
	"xterm":          "xterm",
}

// FileManagerTemplates holds each file manager's invocation.
var FileManagerTemplates = map[string]string{
	"nautilus":   "nautilus {{dir}}",
	"dolphin":    "dolphin {{dir}}",
	"thunar":     "thunar {{dir}}",
	"nemo":       "nemo {{dir}}",
	"caja":       "caja {{dir}}",
	"pcmanfm":    "pcmanfm {{dir}}",
	"pcmanfm-qt": "pcmanfm-qt {{dir}}",
	"xdg-open":   "xdg-open {{dir}}",
}

func mergeTemplates(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		if strings.TrimSpace(v) != "" {
			out[k] = v
		}
	}
	return out
}

// renderTemplate fills {{dir}} and returns an exec-ready argv.
func renderTemplate(template, dir string) ([]string, error) {
	argv, err := splitCommand(template)
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command template")
	}
	for i, arg := range argv {
		argv[i] = strings.ReplaceAll(arg, dirPlaceholder, dir)
	}
	return argv, nil
}

// splitCommand splits a shell-like command string into arguments,
// honoring single quotes, double quotes and backslash escapes.
func splitCommand(s string) ([]string, error) {
	var out []string
	var buf strings.Builder
	inSingle := false
	inDouble := false
	escaped := false
	// Quoted empty strings still produce an argument.
	pending := false

	flush := func() {
		if buf.Len() == 0 && !pending {
			return
		}
		out = append(out, buf.String())
		buf.Reset()
		pending = false
	}

	for _, r := range s {
		if escaped {
			buf.WriteRune(r)
			escaped = false
			continue
		}
		if !inSingle && r == '\\' {
			escaped = true
			continue
		}
		if !inDouble && r == '\'' {
			inSingle = !inSingle
			pending = true
			continue
		}
		if !inSingle && r == '"' {
			inDouble = !inDouble
			pending = true
			continue
		}
		if !inSingle && !inDouble {
			if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
				flush()
				continue
			}
		}
		buf.WriteRune(r)
	}

	if escaped {
		return nil, fmt.Errorf("unfinished escape in command template")
	}
	if inSingle || inDouble {
		return nil, fmt.Errorf("unterminated quote in command template")
	}

	flush()
	return out, nil
}
