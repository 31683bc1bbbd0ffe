package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olivier-w/waveplay/internal/catalog"
	"github.com/olivier-w/waveplay/internal/config"
	"github.com/olivier-w/waveplay/internal/logger"
	"github.com/olivier-w/waveplay/internal/playlist"
	"github.com/olivier-w/waveplay/internal/session"
	"github.com/olivier-w/waveplay/internal/ui"
	"github.com/olivier-w/waveplay/internal/visualizer"
)

type rootFlags struct {
	volume     float64
	visualizer string
	fftSize    int
	bars       int
	eqPreset   string
	eqOff      bool
	fps        int
	dropDir    string
	logFile    string
	logLevel   string
	play       bool
}

func newRootCmd() *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:   "waveplay [files|dirs|playlists|urls...]",
		Short: "Terminal music player with a live spectrum visualizer",
		Long: "waveplay plays local files, folders, m3u/pls playlists and http(s) streams\n" +
			"with a 10-band equalizer and four visualizer modes. With no arguments\n" +
			"the built-in sample library is loaded.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			applyFlags(cmd, f, &cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return run(cfg, args, f.play)
		},
	}

	fl := cmd.Flags()
	d := config.Defaults()
	fl.Float64Var(&f.volume, "volume", d.Volume, "initial volume (0-1)")
	fl.StringVar(&f.visualizer, "visualizer", d.Visualizer, "visualizer mode: bars, waveform, radial, particles")
	fl.IntVar(&f.fftSize, "fft-size", d.FFTSize, "analyser FFT size (power of two)")
	fl.IntVar(&f.bars, "bars", d.Bars, "bar count for the bars visualizer (32-64)")
	fl.StringVar(&f.eqPreset, "eq-preset", d.EQPreset, "equalizer preset")
	fl.BoolVar(&f.eqOff, "no-eq", false, "start with the equalizer bypassed")
	fl.IntVar(&f.fps, "fps", d.FPS, "visualizer frame rate")
	fl.StringVar(&f.dropDir, "drop-dir", "", "watch a folder and import audio files dropped into it")
	fl.StringVar(&f.logFile, "log-file", "", "log file path (default under the user cache dir)")
	fl.StringVar(&f.logLevel, "log-level", d.LogLevel, "log level: debug, info, warn, error")
	fl.BoolVar(&f.play, "play", false, "start playing the first track immediately")
	return cmd
}

// applyFlags overrides env and .env settings with explicitly set flags.
func applyFlags(cmd *cobra.Command, f rootFlags, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("volume") {
		cfg.Volume = f.volume
	}
	if fl.Changed("visualizer") {
		cfg.Visualizer = f.visualizer
	}
	if fl.Changed("fft-size") {
		cfg.FFTSize = f.fftSize
	}
	if fl.Changed("bars") {
		cfg.Bars = f.bars
	}
	if fl.Changed("eq-preset") {
		cfg.EQPreset = f.eqPreset
	}
	if f.eqOff {
		cfg.EQEnabled = false
	}
	if fl.Changed("fps") {
		cfg.FPS = f.fps
	}
	if fl.Changed("drop-dir") {
		cfg.DropDir = f.dropDir
	}
	if fl.Changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if cfg.LogFile == "" {
		cfg.LogFile = logger.DefaultPath()
	}
}

func run(cfg config.Config, args []string, play bool) error {
	log, err := logger.New(logger.Config{
		Level:      logger.Level(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	mode, err := visualizer.ParseMode(cfg.Visualizer)
	if err != nil {
		return err
	}

	tracks := startupTracks(args, log)
	if len(args) > 0 && len(tracks) == 0 {
		return fmt.Errorf("nothing playable in %d argument(s)", len(args))
	}

	sess, err := session.New(session.Options{
		Config: cfg,
		Tracks: tracks,
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("starting audio: %w", err)
	}
	defer sess.Close()

	if play && len(tracks) > 0 {
		if err := sess.Machine().Play(); err != nil {
			log.Warn("autoplay failed", zap.Error(err))
		}
	}

	model := ui.New(sess, ui.Options{
		Mode:     mode,
		Renderer: visualizer.Options{Bars: cfg.Bars},
		FPS:      cfg.FPS,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// startupTracks expands the command line, or falls back to the sample
// library when nothing was given. Skipped arguments are reported on stderr
// before the TUI takes over the terminal.
func startupTracks(args []string, log *zap.Logger) []playlist.Track {
	if len(args) == 0 {
		return catalog.Samples()
	}
	tracks, skipped := catalog.Load(args)
	for _, s := range skipped {
		fmt.Fprintf(os.Stderr, "skipping %s: %s\n", s.Path, s.Reason)
		log.Info("skipped argument", zap.String("path", s.Path), zap.String("reason", s.Reason))
	}
	return tracks
}
