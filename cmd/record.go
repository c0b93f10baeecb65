package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/audiolibrelab/voicepipe/internal/audio"

	"github.com/spf13/cobra"
)

var (
	recordDevice   string
	recordRate     int
	recordChannels int
	recordChunks   int
	recordDuration time.Duration
)

var recordCmd = &cobra.Command{
	Use:   "record [file]",
	Short: "Record microphone audio to a WAV file",
	Long: `Record microphone audio to a WAV file until interrupted.

Without a file argument the recording is written to a timestamped file
in the configured recordings directory. Recording stops on Ctrl+C, when
--duration elapses, or after --chunks chunks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := cfg.Format()
		if recordRate > 0 {
			format.SampleRateHz = recordRate
		}
		if recordChannels > 0 {
			format.NumChannels = recordChannels
		}

		device := recordDevice
		if device == "" {
			device = cfg.Audio.CaptureDevice
		}

		filename, err := outputFilename(args)
		if err != nil {
			return err
		}

		recorder := audio.NewRecorder()
		chunks, err := recorder.Record(audio.RecordOptions{
			Format:        format,
			ChunkDuration: cfg.ChunkDuration(),
			Device:        device,
			NumChunks:     recordChunks,
			Filename:      filename,
			OnStart: func() {
				slog.Info("Recording started", "file", filename, "device", device)
			},
			OnStop: func() {
				slog.Debug("Capture loop finished")
			},
		})
		if err != nil {
			return fmt.Errorf("failed to start recording: %w", err)
		}

		// Handle interruption
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			slog.Info("Stopping recording...")
			recorder.Done()
		}()

		if recordDuration > 0 {
			time.AfterFunc(recordDuration, recorder.Done)
		}

		var total int
		for chunk := range chunks {
			total += len(chunk)
		}

		if err := recorder.Join(); err != nil {
			return err
		}

		fmt.Printf("Recorded %d bytes to %s\n", total, filename)
		return nil
	},
}

// outputFilename picks the explicit target or a timestamped file in the
// recordings directory.
func outputFilename(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	name := "recording-" + time.Now().Format("20060102-150405") + ".wav"
	return filepath.Join(cfg.Output.Directory, name), nil
}

func init() {
	recordCmd.Flags().StringVarP(&recordDevice, "device", "D", "", "capture device (overrides config)")
	recordCmd.Flags().IntVarP(&recordRate, "rate", "r", 0, "sample rate in Hz (overrides config)")
	recordCmd.Flags().IntVarP(&recordChannels, "channels", "c", 0, "channel count (overrides config)")
	recordCmd.Flags().IntVarP(&recordChunks, "chunks", "n", 0, "stop after this many chunks (0 = unbounded)")
	recordCmd.Flags().DurationVarP(&recordDuration, "duration", "d", 0, "stop after this duration (0 = until interrupted)")
}
