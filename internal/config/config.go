// Package config loads waveplay settings from .env, the environment and
// command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/olivier-w/waveplay/internal/visualizer"
)

// Config holds runtime settings.
type Config struct {
	Volume     float64 // initial volume, 0..1
	Visualizer string  // bars, waveform (wave), radial (circular), particles
	FFTSize    int     // analyser FFT size, power of two
	Bars       int     // bar count for the bars renderer
	EQPreset   string
	EQEnabled  bool
	FPS        int
	DropDir    string // watched directory for new audio files, empty disables
	LogFile    string
	LogLevel   string
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Volume:     0.8,
		Visualizer: "bars",
		FFTSize:    256,
		Bars:       48,
		EQPreset:   "flat",
		EQEnabled:  true,
		FPS:        30,
		LogLevel:   "info",
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

// Load reads an optional .env file and the WAVEPLAY_* environment.
// A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	d := Defaults()
	return Config{
		Volume:     getEnvFloat("WAVEPLAY_VOLUME", d.Volume),
		Visualizer: getEnv("WAVEPLAY_VISUALIZER", d.Visualizer),
		FFTSize:    getEnvInt("WAVEPLAY_FFT_SIZE", d.FFTSize),
		Bars:       getEnvInt("WAVEPLAY_BARS", d.Bars),
		EQPreset:   getEnv("WAVEPLAY_EQ_PRESET", d.EQPreset),
		EQEnabled:  getEnvBool("WAVEPLAY_EQ_ENABLED", d.EQEnabled),
		FPS:        getEnvInt("WAVEPLAY_FPS", d.FPS),
		DropDir:    getEnv("WAVEPLAY_DROP_DIR", d.DropDir),
		LogFile:    getEnv("WAVEPLAY_LOG_FILE", d.LogFile),
		LogLevel:   getEnv("WAVEPLAY_LOG_LEVEL", d.LogLevel),
	}
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Volume < 0 || c.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume %.2f out of range [0,1]", c.Volume))
	}
	if c.FFTSize < 32 || c.FFTSize > 32768 || c.FFTSize&(c.FFTSize-1) != 0 {
		errs = append(errs, fmt.Errorf("fft size %d must be a power of two in [32, 32768]", c.FFTSize))
	}
	if c.Bars < 32 || c.Bars > 64 {
		errs = append(errs, fmt.Errorf("bar count %d out of range [32,64]", c.Bars))
	}
	if c.FPS < 1 || c.FPS > 120 {
		errs = append(errs, fmt.Errorf("fps %d out of range [1,120]", c.FPS))
	}
	if _, err := visualizer.ParseMode(c.Visualizer); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
