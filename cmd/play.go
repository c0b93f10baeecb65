package cmd

import (
	"fmt"
	"os"

	"github.com/audiolibrelab/voicepipe/internal/audio"

	"github.com/spf13/cobra"
)

var (
	playDevice string
	playRaw    bool
)

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Play an audio file through the speaker",
	Long: `Play a WAV file through the configured playback device.

With --raw the file is treated as headerless PCM and played using the
configured (or flag-overridden) format.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]
		if _, err := os.Stat(filename); err != nil {
			return fmt.Errorf("audio file not found: %s", filename)
		}

		device := playDevice
		if device == "" {
			device = cfg.Audio.PlaybackDevice
		}

		player := audio.NewFilePlayer()
		if playRaw {
			if err := player.PlayRaw(cfg.Format(), filename, device); err != nil {
				return fmt.Errorf("playback failed: %w", err)
			}
		} else {
			if err := player.PlayWav(filename, device); err != nil {
				return fmt.Errorf("playback failed: %w", err)
			}
		}

		if err := player.Join(); err != nil {
			return fmt.Errorf("playback failed: %w", err)
		}

		fmt.Println("Playback completed")
		return nil
	},
}

func init() {
	playCmd.Flags().StringVarP(&playDevice, "device", "D", "", "playback device (overrides config)")
	playCmd.Flags().BoolVar(&playRaw, "raw", false, "treat the file as headerless PCM")
}
