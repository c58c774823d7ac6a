package tui

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/1broseidon/wingrid/internal/config"
	"github.com/1broseidon/wingrid/internal/detect"
	"github.com/1broseidon/wingrid/internal/palette"
)

// ErrSetupAborted is returned when the user leaves the setup form.
var ErrSetupAborted = errors.New("setup aborted")

// Setup holds the form-bound values of the interactive config editor.
// Values are strings for huh and converted by Apply.
type Setup struct {
	GapSize              string
	DefaultTarget        string
	ArrangeHotkey        string
	PaletteHotkey        string
	PaletteBackend       string
	PreferredTerminal    string
	PreferredFileManager string
	LaunchDelayMS        string

	presets map[string]config.GridPreset
}

// NewSetup prefills the form from cfg.
func NewSetup(cfg *config.Config) *Setup {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	backend := cfg.PaletteBackend
	if backend == "" {
		backend = "auto"
	}
	return &Setup{
		GapSize:              strconv.Itoa(cfg.GapSize),
		DefaultTarget:        cfg.DefaultTarget,
		ArrangeHotkey:        cfg.ArrangeHotkey,
		PaletteHotkey:        cfg.PaletteHotkey,
		PaletteBackend:       backend,
		PreferredTerminal:    cfg.PreferredTerminal,
		PreferredFileManager: cfg.PreferredFileManager,
		LaunchDelayMS:        strconv.Itoa(cfg.LaunchDelayMS),
		presets:              cfg.GridPresets,
	}
}

// Form builds the huh form bound to s.
func (s *Setup) Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("arrange_hotkey").
				Title("Arrange Hotkey").
				Description("X11 keybinding that tiles windows (empty disables it)").
				Value(&s.ArrangeHotkey),

			huh.NewInput().
				Key("gap_size").
				Title("Gap Size").
				Description("Pixels between tiled windows").
				Validate(nonNegative).
				Value(&s.GapSize),

			huh.NewSelect[string]().
				Key("default_target").
				Title("Default Target").
				Description("Where windows go when no display is named").
				Options(
					huh.NewOption("auto: each window stays on its display", config.TargetAuto),
					huh.NewOption("main: everything on the main display", config.TargetMain),
				).
				Value(&s.DefaultTarget),

			huh.NewNote().
				Title("Grid Presets").
				Description(presetSummary(s.presets)+"\nEdit grid_presets in the file to change them."),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("preferred_terminal").
				Title("Preferred Terminal").
				Description(fmt.Sprintf("Tried before the %d built-in terminals", len(detect.Terminals))).
				Value(&s.PreferredTerminal),

			huh.NewInput().
				Key("preferred_file_manager").
				Title("Preferred File Manager").
				Description(fmt.Sprintf("Tried before the %d built-in file managers", len(detect.FileManagers))).
				Value(&s.PreferredFileManager),

			huh.NewInput().
				Key("launch_delay_ms").
				Title("Launch Delay (ms)").
				Description("How long a new process is watched before reporting success").
				Validate(positive).
				Value(&s.LaunchDelayMS),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("palette_backend").
				Title("Palette Backend").
				Options(backendOptions()...).
				Value(&s.PaletteBackend),

			huh.NewInput().
				Key("palette_hotkey").
				Title("Palette Hotkey").
				Description("X11 keybinding that opens the window switcher (empty disables it)").
				Value(&s.PaletteHotkey),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func backendOptions() []huh.Option[string] {
	names := append([]string{"auto"}, palette.Backends...)
	opts := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		opts = append(opts, huh.NewOption(name, name))
	}
	return opts
}

func nonNegative(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return fmt.Errorf("must be a whole number >= 0")
	}
	return nil
}

func positive(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a whole number > 0")
	}
	return nil
}

// Apply copies the form values onto cfg and validates the result.
func (s *Setup) Apply(cfg *config.Config) error {
	gap, err := strconv.Atoi(strings.TrimSpace(s.GapSize))
	if err != nil {
		return fmt.Errorf("gap_size: %w", err)
	}
	delay, err := strconv.Atoi(strings.TrimSpace(s.LaunchDelayMS))
	if err != nil {
		return fmt.Errorf("launch_delay_ms: %w", err)
	}

	cfg.GapSize = gap
	cfg.LaunchDelayMS = delay
	cfg.DefaultTarget = s.DefaultTarget
	cfg.ArrangeHotkey = strings.TrimSpace(s.ArrangeHotkey)
	cfg.PaletteHotkey = strings.TrimSpace(s.PaletteHotkey)
	cfg.PreferredTerminal = strings.TrimSpace(s.PreferredTerminal)
	cfg.PreferredFileManager = strings.TrimSpace(s.PreferredFileManager)
	cfg.PaletteBackend = s.PaletteBackend
	if cfg.PaletteBackend == "auto" {
		cfg.PaletteBackend = ""
	}
	return cfg.Validate()
}

// RunSetup edits cfg interactively.
func RunSetup(cfg *config.Config) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("config init requires an interactive terminal (use --defaults otherwise)")
	}

	s := NewSetup(cfg)
	if err := s.Form().Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrSetupAborted
		}
		return err
	}
	return s.Apply(cfg)
}

// presetSummary renders presets as "name CxR" in name order.
func presetSummary(presets map[string]config.GridPreset) string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s %dx%d", name, presets[name].Columns, presets[name].Rows)
	}
	return strings.Join(parts, ", ")
}
