package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"fashion-show/assets"
	"fashion-show/audio"
	"fashion-show/audio/device"
	"fashion-show/config"
	"fashion-show/core"
	"fashion-show/input"
	"fashion-show/renderer"
	"fashion-show/show"
	"fashion-show/stage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the showroom window",
	Long: `Loads every model and texture, opens the window and plays the show.
Press a bound key to start a walk, drag to orbit, scroll to zoom and
Escape to quit.`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runShow(cmd *cobra.Command, _ []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid show file: %w", err)
	}
	table, err := cfg.PermutationTable()
	if err != nil {
		return err
	}
	policy, err := cfg.OverlapPolicy()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// Model decoding needs no GL context, so it runs before the window opens.
	loader := assets.NewLoader(
		assets.WithRetry(cfg.Assets.Retries, cfg.Assets.Backoff),
		assets.WithLogger(log),
	)
	models, err := loader.LoadAll(ctx, stage.Requests(cfg))
	if err != nil {
		return err
	}
	tex := stage.LoadTextures(cfg, log)
	log.Info("assets loaded", "models", len(models))

	wcfg := core.DefaultWindowConfig()
	wcfg.Width, wcfg.Height = cfg.Window.Width, cfg.Window.Height
	wcfg.Title = cfg.Window.Title
	wcfg.VSync = cfg.Window.VSync
	wcfg.Samples = cfg.Window.Samples
	window, err := core.NewWindow(wcfg)
	if err != nil {
		return err
	}
	defer window.Destroy()

	engine, err := renderer.NewRenderEngine(window, log)
	if err != nil {
		return err
	}
	defer engine.Destroy()

	aspect := float32(window.Width) / float32(max(window.Height, 1))
	sh, err := stage.Assemble(cfg, models, tex, aspect)
	if err != nil {
		return err
	}
	for _, t := range sh.Textures {
		if err := engine.UploadTexture(t); err != nil {
			log.Warn("texture upload failed", "texture", t.Name, "error", err)
		}
	}
	engine.SetScene(sh.Scene)
	if light := sh.Scene.ShadowLight(); light != nil {
		if err := engine.EnableShadows(light.Shadow.MapSize); err != nil {
			log.Warn("shadows disabled", "error", err)
		}
	}

	cue, closeAudio := openCue(cfg, log)
	defer closeAudio()

	queue := show.NewQueue(
		show.WithPolicy(policy),
		show.WithLogger(log),
		show.WithTransitionObserver(func(t show.Transition) {
			log.Debug("transition", "model", t.Key, "from", t.From, "to", t.To,
				"sequence_done", t.SequenceDone, "generation", t.Generation)
		}),
	)
	dispatcher, err := show.NewDispatcher(table, sh.Roster, queue, cue)
	if err != nil {
		return err
	}

	in := input.NewManager(window)
	window.SetScrollCallback(in.Scroll)
	window.SetCharCallback(in.Char)
	window.SetResizeCallback(engine.Resize)

	log.Info("show ready", "keys", table.Symbols(), "policy", policy)

	last := window.Time()
	for !window.ShouldClose() && ctx.Err() == nil {
		window.PollEvents()
		now := window.Time()
		dt := float32(now - last)
		last = now

		in.Update()
		if in.EscapePressed() {
			window.Close()
		}
		for _, sym := range in.Symbols() {
			switch err := dispatcher.Dispatch(sym); {
			case errors.Is(err, show.ErrUnboundSymbol):
				log.Debug("key not bound", "key", sym)
			case errors.Is(err, show.ErrSequenceActive):
				log.Info("key ignored while a walk is running", "key", sym)
			case err != nil:
				log.Warn("trigger failed", "key", sym, "error", err)
			}
		}
		in.DriveOrbit(sh.Orbit)
		in.EndFrame()

		sh.Orbit.Update()
		queue.Update(dt)
		sh.Scene.Update(dt)

		if err := engine.Render(); err != nil {
			return err
		}
		engine.Present()
	}
	return nil
}

// openCue opens the speaker and loads the walk-out sound. Any failure
// leaves the show silent rather than stopping it.
func openCue(cfg *config.Config, log *slog.Logger) (show.Cue, func()) {
	noop := func() {}
	if cfg.Audio.Disabled || cfg.Audio.Path == "" {
		return audio.Nop{}, noop
	}
	spk, err := device.Open(cfg.Audio.SampleRate)
	if err != nil {
		log.Warn("audio unavailable", "error", err)
		return audio.Nop{}, noop
	}
	buf, err := audio.Load(cfg.AssetPath(cfg.Audio.Path), spk.Rate)
	if err != nil {
		log.Warn("sound unavailable", "path", cfg.Audio.Path, "error", err)
		spk.Close()
		return audio.Nop{}, noop
	}
	return audio.NewCue(spk, buf, cfg.Audio.Volume), spk.Close
}
