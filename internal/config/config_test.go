package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Expected no error for a missing config file, got: %v", err)
	}

	if cfg.Audio.SampleRate != 16000 || cfg.Audio.Channels != 1 || cfg.Audio.BytesPerSample != 2 {
		t.Errorf("Expected default audio settings, got %+v", cfg.Audio)
	}
	if cfg.Audio.CaptureDevice != "default" || cfg.Audio.PlaybackDevice != "default" {
		t.Errorf("Expected default devices, got %+v", cfg.Audio)
	}
	if cfg.ChunkDuration() != 100*time.Millisecond {
		t.Errorf("Expected default chunk duration 100ms, got %v", cfg.ChunkDuration())
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voicepipe.yaml")
	content := `audio:
  sample_rate: 44100
  channels: 2
  capture_device: "plughw:1"
output:
  directory: "/tmp/captures"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("Expected sample rate 44100, got %d", cfg.Audio.SampleRate)
	}
	if cfg.Audio.Channels != 2 {
		t.Errorf("Expected 2 channels, got %d", cfg.Audio.Channels)
	}
	if cfg.Audio.CaptureDevice != "plughw:1" {
		t.Errorf("Expected capture device plughw:1, got %s", cfg.Audio.CaptureDevice)
	}
	// Unset fields keep their defaults
	if cfg.Audio.BytesPerSample != 2 {
		t.Errorf("Expected default bytes_per_sample 2, got %d", cfg.Audio.BytesPerSample)
	}
	if cfg.Output.Directory != "/tmp/captures" {
		t.Errorf("Expected output directory /tmp/captures, got %s", cfg.Output.Directory)
	}
}

func TestLoad_RejectsInvalidAudioSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voicepipe.yaml")
	content := `audio:
  sample_rate: 0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected an error for a zero sample rate")
	}
}

func TestConfig_Format(t *testing.T) {
	cfg := Default()
	format := cfg.Format()
	if format.SampleRateHz != 16000 || format.NumChannels != 1 || format.BytesPerSample != 2 {
		t.Errorf("Expected default format 16000/1/2, got %+v", format)
	}
	if !format.Valid() {
		t.Error("Expected the default format to be valid")
	}
}

func TestWriteDefault_RefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voicepipe.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("Expected no error writing default config, got: %v", err)
	}
	if err := WriteDefault(path); err == nil {
		t.Error("Expected an error when the config file already exists")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected the written config to load, got: %v", err)
	}
	if cfg.Audio.SampleRate != defaultConfig.Audio.SampleRate {
		t.Errorf("Expected written config to match defaults, got %+v", cfg.Audio)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("No home directory: %v", err)
	}

	got := expandPath("~/recordings")
	want := filepath.Join(home, "recordings")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}

	if got := expandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("Expected absolute paths untouched, got %s", got)
	}
}
