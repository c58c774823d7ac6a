package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/1broseidon/wingrid/internal/logging"
	"github.com/1broseidon/wingrid/internal/palette"
	"github.com/1broseidon/wingrid/internal/toolexec"
)

func runMenu(args []string) int {
	fs := newFlagSet("menu", "Usage: wingrid menu [--backend rofi|fuzzel|wofi|dmenu] [--app NAME]... [--local]")
	var common commonFlags
	common.register(fs)
	backendName := fs.String("backend", "", "Palette program (default: palette_backend, else the first installed)")
	var apps stringList
	fs.Var(&apps, "app", "Also list windows of this application (repeatable)")
	if code := parseFlags(fs, args, 0, 0); code >= 0 {
		return code
	}

	res, err := loadConfig(common.configPath)
	if err != nil {
		return fail(fmt.Errorf("failed to load configuration: %w", err))
	}
	name := res.Config.PaletteBackend
	if *backendName != "" {
		name = *backendName
	}

	logger := logging.NewDefault(res.Config.LogLevel)
	defer logger.Sync()

	pal, err := palette.NewBackend(toolexec.New(logger.Named("toolexec"), nil), name)
	if err != nil {
		return fail(err)
	}

	b, err := common.backend()
	if err != nil {
		return fail(err)
	}
	presets, err := b.ListPresets()
	if err != nil {
		return fail(err)
	}

	out, err := palette.Run(pal, b, apps, presets.Presets)
	if errors.Is(err, palette.ErrCancelled) {
		return 0
	}
	if err != nil {
		return fail(err)
	}
	if common.jsonOut {
		if err := writeJSON(os.Stdout, out); err != nil {
			return fail(err)
		}
	} else if out.Detail != "" {
		fmt.Println(out.Detail)
	}
	return 0
}
