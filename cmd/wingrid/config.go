package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/1broseidon/wingrid/internal/config"
	"github.com/1broseidon/wingrid/internal/tui"
)

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  wingrid config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  wingrid config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  wingrid config init [--path PATH] [--defaults] [--force]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := newFlagSet("validate", "Usage: wingrid config validate [--path PATH]")
		path := fs.String("path", "", "Config file path (default: ~/.config/wingrid/config.yaml)")
		if code := parseFlags(fs, args[1:], 0, 0); code >= 0 {
			return code
		}

		res, err := loadConfig(*path)
		if err != nil {
			return fail(err)
		}
		if !res.Found {
			fmt.Printf("config: ok (no file at %s, using defaults)\n", res.Path)
			return 0
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := newFlagSet("print", "Usage: wingrid config print [--path PATH] [--defaults]")
		path := fs.String("path", "", "Config file path (default: ~/.config/wingrid/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files, no environment)")
		if code := parseFlags(fs, args[1:], 0, 0); code >= 0 {
			return code
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				return fail(err)
			}
			cfg = res.Config
			fmt.Println(provenance(res))
		}

		data, err := config.Marshal(cfg)
		if err != nil {
			return fail(err)
		}
		fmt.Print(string(data))
		return 0

	case "init":
		fs := newFlagSet("init", "Usage: wingrid config init [--path PATH] [--defaults] [--force]")
		path := fs.String("path", "", "Config file path (default: ~/.config/wingrid/config.yaml)")
		useDefaults := fs.Bool("defaults", false, "Write built-in defaults without prompting")
		force := fs.Bool("force", false, "Overwrite an existing file")
		if code := parseFlags(fs, args[1:], 0, 0); code >= 0 {
			return code
		}

		res, err := loadConfig(*path)
		if err != nil {
			return fail(err)
		}
		if res.Found && !*force {
			return fail(fmt.Errorf("%s already exists (use --force to overwrite)", res.Path))
		}

		cfg := res.Config
		if *useDefaults {
			cfg = config.DefaultConfig()
		} else if err := tui.RunSetup(cfg); err != nil {
			if errors.Is(err, tui.ErrSetupAborted) {
				return 1
			}
			return fail(err)
		}

		if err := writeConfigFile(res.Path, cfg); err != nil {
			return fail(err)
		}
		fmt.Printf("wrote %s\n", res.Path)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

// provenance is a YAML comment describing where the effective config
// came from.
func provenance(res *config.LoadResult) string {
	line := "# source: built-in defaults"
	if res.Found {
		line = "# source: " + filepath.Clean(res.Path)
	}
	for _, env := range res.Env {
		line += "\n# override: " + env
	}
	return line
}

func writeConfigFile(path string, cfg *config.Config) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
