package command

import (
	"fmt"
	"os"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-farm/internal/commands"
	"github.com/pixil98/go-farm/internal/farm"
)

type FarmConfig struct {
	WinThreshold        int      `json:"win_threshold,omitempty"`
	SeedChance          *float64 `json:"seed_chance,omitempty"`
	Seed                *int64   `json:"seed,omitempty"`
	EraseClearsAutosave bool     `json:"erase_clears_autosave"`
	IdleTimeout         string   `json:"idle_timeout,omitempty"`
	Color               bool     `json:"color"`
	// KeymapPath replaces the built-in command table.
	KeymapPath string `json:"keymap_path,omitempty"`
}

func (c *FarmConfig) validate() error {
	el := errors.NewErrorList()

	if c.WinThreshold < 0 || c.WinThreshold > farm.MaxCounter*len(farm.PlantTypes) {
		el.Add(fmt.Errorf("farm: win_threshold %d is out of range", c.WinThreshold))
	}
	if c.SeedChance != nil && (*c.SeedChance < 0 || *c.SeedChance > 1) {
		el.Add(fmt.Errorf("farm: seed_chance must be between 0 and 1"))
	}
	if _, err := parseOptionalDuration("idle_timeout", c.IdleTimeout); err != nil {
		el.Add(fmt.Errorf("farm: %w", err))
	}
	if c.KeymapPath != "" {
		if _, err := os.Stat(c.KeymapPath); err != nil {
			el.Add(fmt.Errorf("farm: invalid keymap_path %q: %w", c.KeymapPath, err))
		}
	}

	return el.Err()
}

func (c *FarmConfig) Rules() farm.Rules {
	r := farm.DefaultRules()
	if c.WinThreshold > 0 {
		r.WinThreshold = c.WinThreshold
	}
	if c.SeedChance != nil {
		r.SeedChance = *c.SeedChance
	}
	r.EraseClearsAutosave = c.EraseClearsAutosave
	return r
}

// GameOpts returns the options every new game gets beyond its rules.
func (c *FarmConfig) GameOpts() []farm.GameOpt {
	if c.Seed == nil {
		return nil
	}
	return []farm.GameOpt{farm.WithSeed(*c.Seed)}
}

func (c *FarmConfig) idleTimeout() time.Duration {
	d, _ := parseOptionalDuration("idle_timeout", c.IdleTimeout)
	return d
}

func (c *FarmConfig) BuildCommandHandler() (*commands.Handler, error) {
	var (
		km  *commands.Keymap
		err error
	)
	if c.KeymapPath == "" {
		km, err = commands.DefaultKeymap()
	} else {
		var data []byte
		data, err = os.ReadFile(c.KeymapPath)
		if err != nil {
			return nil, fmt.Errorf("reading keymap %q: %w", c.KeymapPath, err)
		}
		km, err = commands.ParseKeymap(data)
	}
	if err != nil {
		return nil, fmt.Errorf("loading keymap: %w", err)
	}

	h := commands.NewHandler(km)
	if err := h.CompileAll(); err != nil {
		return nil, fmt.Errorf("compiling commands: %w", err)
	}
	return h, nil
}
