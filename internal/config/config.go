package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/audiolibrelab/voicepipe/internal/audio"
)

type Config struct {
	Audio  AudioConfig  `mapstructure:"audio" yaml:"audio"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

type AudioConfig struct {
	SampleRate      int    `mapstructure:"sample_rate" yaml:"sample_rate"`
	Channels        int    `mapstructure:"channels" yaml:"channels"`
	BytesPerSample  int    `mapstructure:"bytes_per_sample" yaml:"bytes_per_sample"`
	CaptureDevice   string `mapstructure:"capture_device" yaml:"capture_device"`
	PlaybackDevice  string `mapstructure:"playback_device" yaml:"playback_device"`
	ChunkDurationMs int    `mapstructure:"chunk_duration_ms" yaml:"chunk_duration_ms"`
}

type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
}

var defaultConfig = Config{
	Audio: AudioConfig{
		SampleRate:      16000,
		Channels:        1,
		BytesPerSample:  2,
		CaptureDevice:   audio.DefaultDevice,
		PlaybackDevice:  audio.DefaultDevice,
		ChunkDurationMs: 100,
	},
	Output: OutputConfig{
		Directory: "~/recordings",
	},
}

// Default returns a copy of the built-in configuration.
func Default() *Config {
	cfg := defaultConfig
	cfg.Output.Directory = expandPath(cfg.Output.Directory)
	return &cfg
}

// Load reads the configuration file, falling back to the defaults when
// the file does not exist. Environment variables with the VOICEPIPE
// prefix override file values.
func Load(configFile string) (*Config, error) {
	if configFile == "" {
		return nil, fmt.Errorf("no config file specified")
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetEnvPrefix("VOICEPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("audio.sample_rate", defaultConfig.Audio.SampleRate)
	v.SetDefault("audio.channels", defaultConfig.Audio.Channels)
	v.SetDefault("audio.bytes_per_sample", defaultConfig.Audio.BytesPerSample)
	v.SetDefault("audio.capture_device", defaultConfig.Audio.CaptureDevice)
	v.SetDefault("audio.playback_device", defaultConfig.Audio.PlaybackDevice)
	v.SetDefault("audio.chunk_duration_ms", defaultConfig.Audio.ChunkDurationMs)
	v.SetDefault("output.directory", defaultConfig.Output.Directory)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.Output.Directory = expandPath(cfg.Output.Directory)
	return &cfg, nil
}

func (c *Config) validate() error {
	if !c.Format().Valid() {
		return fmt.Errorf("audio settings must all be positive: sample_rate=%d channels=%d bytes_per_sample=%d",
			c.Audio.SampleRate, c.Audio.Channels, c.Audio.BytesPerSample)
	}
	if c.Audio.ChunkDurationMs <= 0 {
		return fmt.Errorf("chunk_duration_ms must be positive, got %d", c.Audio.ChunkDurationMs)
	}
	return nil
}

// Format returns the configured capture/playback format.
func (c *Config) Format() audio.Format {
	return audio.Format{
		SampleRateHz:   c.Audio.SampleRate,
		NumChannels:    c.Audio.Channels,
		BytesPerSample: c.Audio.BytesPerSample,
	}
}

// ChunkDuration returns the configured chunk duration.
func (c *Config) ChunkDuration() time.Duration {
	return time.Duration(c.Audio.ChunkDurationMs) * time.Millisecond
}

// YAML renders the configuration the way it would appear in the file.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to render config: %w", err)
	}
	return string(out), nil
}

// WriteDefault writes the built-in configuration to path, refusing to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	out, err := yaml.Marshal(defaultConfig)
	if err != nil {
		return fmt.Errorf("failed to render default config: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// expandPath expands a leading tilde to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
