package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/wingrid/internal/config"
)

func TestNewSetup_Prefill(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GapSize = 4

	s := NewSetup(cfg)

	assert.Equal(t, "4", s.GapSize)
	assert.Equal(t, config.TargetAuto, s.DefaultTarget)
	assert.Equal(t, "auto", s.PaletteBackend)
	assert.Equal(t, "500", s.LaunchDelayMS)
	assert.NotNil(t, s.Form())
}

func TestSetupApply(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewSetup(cfg)
	s.GapSize = " 12 "
	s.DefaultTarget = config.TargetMain
	s.PaletteBackend = "rofi"
	s.PaletteHotkey = " Mod4-space "
	s.PreferredTerminal = "kitty"

	require.NoError(t, s.Apply(cfg))

	assert.Equal(t, 12, cfg.GapSize)
	assert.Equal(t, config.TargetMain, cfg.DefaultTarget)
	assert.Equal(t, "rofi", cfg.PaletteBackend)
	assert.Equal(t, "Mod4-space", cfg.PaletteHotkey)
	assert.Equal(t, "kitty", cfg.PreferredTerminal)
}

func TestSetupApply_AutoBackendIsUnset(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PaletteBackend = "wofi"
	s := NewSetup(cfg)
	s.PaletteBackend = "auto"

	require.NoError(t, s.Apply(cfg))
	assert.Empty(t, cfg.PaletteBackend)
}

func TestSetupApply_Errors(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewSetup(cfg)
	s.GapSize = "wide"
	require.Error(t, s.Apply(cfg))

	s = NewSetup(config.DefaultConfig())
	s.LaunchDelayMS = "-1"
	err := s.Apply(config.DefaultConfig())
	var ve *config.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Equal(t, "launch_delay_ms", ve.Path)
}

func TestNonNegative(t *testing.T) {
	assert.NoError(t, nonNegative("0"))
	assert.NoError(t, nonNegative(" 8"))
	assert.Error(t, nonNegative("-2"))
	assert.Error(t, nonNegative("x"))

	assert.NoError(t, positive("250"))
	assert.Error(t, positive("0"))
}

func TestSetupApply_ZeroLaunchDelayRejected(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewSetup(cfg)
	s.LaunchDelayMS = "0"

	err := s.Apply(cfg)
	var ve *config.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Equal(t, "launch_delay_ms", ve.Path)
}

func TestPresetSummary(t *testing.T) {
	got := presetSummary(map[string]config.GridPreset{
		"six":  {Columns: 3, Rows: 2},
		"quad": {Columns: 2, Rows: 2},
	})
	assert.Equal(t, "quad 2x2, six 3x2", got)
}
