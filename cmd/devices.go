package cmd

import (
	"fmt"

	"github.com/audiolibrelab/voicepipe/internal/audio"

	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available capture and playback devices",
	Long:  `List the PCM device names known to arecord and aplay.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		capture, err := audio.CaptureDevices()
		if err != nil {
			return fmt.Errorf("failed to list capture devices: %w", err)
		}
		playback, err := audio.PlaybackDevices()
		if err != nil {
			return fmt.Errorf("failed to list playback devices: %w", err)
		}

		fmt.Println("Capture devices:")
		for _, d := range capture {
			fmt.Printf("  %s\n", d)
		}
		fmt.Println("Playback devices:")
		for _, d := range playback {
			fmt.Printf("  %s\n", d)
		}
		return nil
	},
}
