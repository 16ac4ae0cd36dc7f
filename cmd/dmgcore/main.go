// Command dmgcore runs the DMG emulator core against a ROM file, either
// headless (for batch/CI runs), in a terminal, or in an SDL2 window.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/markwinap/dmgcore/gb"
	"github.com/markwinap/dmgcore/gb/audio"
	"github.com/markwinap/dmgcore/gb/backend"
	"github.com/markwinap/dmgcore/gb/config"
	"github.com/markwinap/dmgcore/gb/timing"
	"github.com/markwinap/dmgcore/gb/video"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Description = "A cycle-accurate DMG (original Game Boy) emulator core"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "path to the ROM file",
		},
		cli.StringFlag{
			Name:  "boot-rom",
			Usage: "path to a 256-byte DMG boot ROM (optional, skips straight to $0100 if omitted)",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "presentation backend: headless, terminal, sdl2",
			Value: "headless",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "stop after N frames (0 = unbounded)",
		},
		cli.StringFlag{
			Name:  "save-dir",
			Usage: "directory for battery-backed cartridge RAM saves",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgcore exited with error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	var bootROM []byte
	if path := c.String("boot-rom"); path != "" {
		bootROM, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading boot ROM: %w", err)
		}
	}

	cfg := config.Default()
	cfg.ROMPath = romPath
	cfg.BootROMPath = c.String("boot-rom")
	cfg.SavePath = c.String("save-dir")
	cfg.Backend = config.Backend(c.String("backend"))
	cfg.FrameLimit = c.Int("frames")

	provider := newDiskProvider(rom, cfg.SavePath)

	be, screen, err := newBackend(cfg.Backend)
	if err != nil {
		return err
	}

	if err := be.Init(backend.Config{Title: "dmgcore"}); err != nil {
		return fmt.Errorf("initializing backend: %w", err)
	}
	defer be.Cleanup()

	gameBoy, err := gb.New(cfg, rom, provider, bootROM, screen, audio.NullSink{})
	if err != nil {
		return fmt.Errorf("initializing emulator: %w", err)
	}

	return runLoop(gameBoy, be, cfg)
}

func runLoop(gameBoy *gb.GameBoy, be backend.Backend, cfg config.Config) error {
	limiter := limiterFor(cfg.Backend)
	frame := 0
	for {
		if err := gameBoy.RunFrame(); err != nil {
			return err
		}

		events, quit, err := be.Update()
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		for _, e := range events {
			if e.Pressed {
				gameBoy.PressButton(e.Button)
			} else {
				gameBoy.ReleaseButton(e.Button)
			}
		}

		frame++
		if cfg.FrameLimit > 0 && frame >= cfg.FrameLimit {
			return nil
		}

		limiter.WaitForNextFrame()
	}
}

func limiterFor(b config.Backend) timing.Limiter {
	if b == config.BackendHeadless {
		return timing.NewNoOpLimiter()
	}
	return timing.NewTickerLimiter()
}

func newBackend(b config.Backend) (backend.Backend, video.Screen, error) {
	switch b {
	case config.BackendHeadless:
		return backend.NewHeadless(), video.NullScreen{}, nil
	case config.BackendTerminal:
		t := backend.NewTerminal()
		return t, t, nil
	case config.BackendSDL2:
		s := backend.NewSDL2()
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", b)
	}
}

