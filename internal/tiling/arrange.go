package tiling

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/1broseidon/wingrid/internal/detect"
	"github.com/1broseidon/wingrid/internal/metrics"
	"github.com/1broseidon/wingrid/internal/platform"
	"github.com/1broseidon/wingrid/internal/windows"
)

var (
	// ErrListToolMissing means windows cannot be enumerated at all.
	ErrListToolMissing = errors.New("window listing tool (wmctrl) is not installed")
	// ErrDisplayNotFound means the requested display index does not exist.
	ErrDisplayNotFound = errors.New("display not found")
	// ErrNoDisplays means the display reader returned nothing.
	ErrNoDisplays = errors.New("no displays detected")
	// ErrUnknownPreset means Options.Preset names no known preset.
	ErrUnknownPreset = errors.New("unknown grid preset")
)

// Arrangement modes.
const (
	ModeAuto   = "auto"
	ModeTarget = "target"
)

// Default targets used when a request names no display.
const (
	TargetAuto = "auto"
	TargetMain = "main"
)

// Options is one arrangement request. DisplayIndex 0 selects the default
// target. Explicit Columns/Rows win over a preset.
type Options struct {
	Columns      int    `json:"columns,omitempty"`
	Rows         int    `json:"rows,omitempty"`
	DisplayIndex int    `json:"displayIndex,omitempty"`
	Preset       string `json:"preset,omitempty"`
}

// Result is what callers see. Arranged counts windows whose move-resize
// command was issued successfully.
type Result struct {
	Success  bool   `json:"success"`
	Arranged int    `json:"arranged"`
	Error    string `json:"error,omitempty"`
}

// Enumerator lists classified windows.
type Enumerator interface {
	List(targets []string) []windows.Record
}

// Actuator moves windows and reads their geometry.
type Actuator interface {
	Geometer
	ArrangeOne(id string, r platform.Rect) bool
}

// Settings tunes an Arranger.
type Settings struct {
	Gap           int
	DefaultTarget string
	Presets       map[string]GridPlan
}

// Arranger runs enumerate → plan → actuate cycles. It holds no state
// between calls.
type Arranger struct {
	probe    detect.Prober
	enum     Enumerator
	act      Actuator
	displays platform.Reader
	settings Settings
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewArranger wires an Arranger. logger and m may be nil.
func NewArranger(probe detect.Prober, enum Enumerator, act Actuator, displays platform.Reader, settings Settings, logger *zap.Logger, m *metrics.Metrics) *Arranger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Arranger{
		probe:    probe,
		enum:     enum,
		act:      act,
		displays: displays,
		settings: settings,
		logger:   logger,
		metrics:  m,
	}
}

// Arrange runs one cycle and reports it as a Result.
func (a *Arranger) Arrange(targets []string, opts Options) Result {
	arranged, err := a.Run(targets, opts)
	if err != nil {
		return Result{Success: false, Arranged: arranged, Error: err.Error()}
	}
	return Result{Success: true, Arranged: arranged}
}

// Run runs one cycle. Per-window failures are not errors; they only lower
// the arranged count.
func (a *Arranger) Run(targets []string, opts Options) (int, error) {
	log := a.logger.With(zap.String("run_id", uuid.NewString()))
	mode := a.mode(opts)

	arranged, err := a.run(log, mode, targets, opts)
	a.metrics.ObserveArrange(mode, err == nil, arranged)
	if err != nil {
		log.Warn("arrangement failed", zap.String("mode", mode), zap.Error(err))
		return arranged, err
	}
	log.Info("arrangement done", zap.String("mode", mode), zap.Int("arranged", arranged))
	return arranged, nil
}

func (a *Arranger) mode(opts Options) string {
	if opts.DisplayIndex > 0 || a.settings.DefaultTarget == TargetMain {
		return ModeTarget
	}
	return ModeAuto
}

func (a *Arranger) run(log *zap.Logger, mode string, targets []string, opts Options) (int, error) {
	opts, err := a.resolvePreset(opts)
	if err != nil {
		return 0, err
	}

	log.Debug("checking tools")
	if !a.probe.Exists(detect.ListTool) {
		return 0, ErrListToolMissing
	}

	records := a.enum.List(targets)
	log.Debug("enumerated", zap.Int("windows", len(records)))
	if len(records) == 0 {
		return 0, nil
	}

	displays, err := a.displays.Displays()
	if err != nil {
		return 0, fmt.Errorf("failed to read displays: %w", err)
	}
	a.metrics.SetDisplays(len(displays))
	if len(displays) == 0 {
		return 0, ErrNoDisplays
	}

	if mode == ModeTarget {
		d, err := pickTarget(displays, opts.DisplayIndex)
		if err != nil {
			return 0, err
		}
		log.Debug("target mode", zap.Int("display", d.Index))
		return a.tile(log, d, records, opts), nil
	}

	groups := Assign(records, displays, a.act)
	log.Debug("auto mode", zap.Int("groups", len(groups)))
	arranged := 0
	for _, d := range displays {
		group, ok := groups[d.Index]
		if !ok {
			continue
		}
		arranged += a.tile(log, d, group, opts)
	}
	return arranged, nil
}

// pickTarget resolves an explicit index, or the main display when none is
// given. Without a display at the origin the first display is used.
func pickTarget(displays []platform.Display, index int) (platform.Display, error) {
	if index > 0 {
		d, ok := platform.ByIndex(displays, index)
		if !ok {
			return platform.Display{}, fmt.Errorf("%w: index %d (have %d)", ErrDisplayNotFound, index, len(displays))
		}
		return d, nil
	}
	if d, ok := platform.Main(displays); ok {
		return d, nil
	}
	return displays[0], nil
}

func (a *Arranger) resolvePreset(opts Options) (Options, error) {
	if opts.Preset == "" {
		return opts, nil
	}
	p, ok := a.settings.Presets[opts.Preset]
	if !ok {
		return opts, fmt.Errorf("%w: %q", ErrUnknownPreset, opts.Preset)
	}
	if opts.Columns <= 0 {
		opts.Columns = p.Columns
	}
	if opts.Rows <= 0 {
		opts.Rows = p.Rows
	}
	return opts, nil
}

// tile plans one display and actuates its windows in order.
func (a *Arranger) tile(log *zap.Logger, d platform.Display, records []windows.Record, opts Options) int {
	plan := PlanGrid(len(records), d.WorkArea.Width, opts.Columns, opts.Rows)
	rects := Positions(plan, len(records), d.WorkArea, a.settings.Gap)
	log.Debug("planned",
		zap.Int("display", d.Index),
		zap.Int("windows", len(records)),
		zap.Int("columns", plan.Columns),
		zap.Int("rows", plan.Rows),
	)

	arranged := 0
	for i, r := range records {
		if a.act.ArrangeOne(r.ID, rects[i]) {
			arranged++
		}
	}
	return arranged
}
