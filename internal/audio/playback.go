package audio

import (
	"fmt"
	"io"
	"log/slog"
)

// PlayWav plays WAV audio from an in-memory byte buffer or a file path
// and blocks until playback finishes.
func PlayWav(src any) error {
	p, err := PlayWavAsync(src)
	if err != nil {
		return err
	}
	return p.Join()
}

// PlayWavAsync starts WAV playback from a byte buffer or a file path
// and returns the player without waiting for completion.
func PlayWavAsync(src any) (*Player, error) {
	return playAsync(nil, FileTypeWav, src)
}

// PlayRaw plays headerless PCM audio from a byte buffer or a file path
// and blocks until playback finishes.
func PlayRaw(format Format, src any) error {
	p, err := PlayRawAsync(format, src)
	if err != nil {
		return err
	}
	return p.Join()
}

// PlayRawAsync starts raw playback from a byte buffer or a file path
// and returns the player without waiting for completion.
func PlayRawAsync(format Format, src any) (*Player, error) {
	return playAsync(&format, FileTypeRaw, src)
}

func playAsync(format *Format, fileType FileType, src any) (*Player, error) {
	p := NewPlayer()

	switch v := src.(type) {
	case []byte:
		args, err := PlayCommand(format, fileType, "", DefaultDevice)
		if err != nil {
			return nil, err
		}
		stdin, err := p.StartWithInput(args)
		if err != nil {
			return nil, err
		}
		go pipeBuffer(stdin, v)
		return p, nil

	case string:
		args, err := PlayCommand(format, fileType, v, DefaultDevice)
		if err != nil {
			return nil, err
		}
		if err := p.Start(args); err != nil {
			return nil, err
		}
		return p, nil

	default:
		return nil, fmt.Errorf("%w: play source must be a byte buffer or a filename, got %T", ErrInvalidArgument, src)
	}
}

// pipeBuffer writes the whole buffer to the playback process and closes
// its input so the process can finish.
func pipeBuffer(w io.WriteCloser, data []byte) {
	if _, err := w.Write(data); err != nil {
		slog.Error("Failed to write audio buffer to playback process", "error", err)
	}
	if err := w.Close(); err != nil {
		slog.Error("Failed to close playback input", "error", err)
	}
}

// RecordFileAsync starts a capture process writing straight to filename
// and returns the recorder without waiting. Stop it with Terminate and
// Join, or let it run until the caller kills it.
func RecordFileAsync(format Format, filename string, fileType FileType, device string) (*Recorder, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: filename must be specified", ErrInvalidArgument)
	}
	args, err := RecordCommand(format, fileType, filename, device)
	if err != nil {
		return nil, err
	}

	r := NewRecorder()
	if err := r.startDirect(args); err != nil {
		return nil, err
	}
	return r, nil
}

// RecordFile records to filename until the wait callback returns, then
// terminates the capture process and waits for it to exit. This is the
// forceful-cancellation path: no cooperative flag, just SIGTERM.
func RecordFile(format Format, filename string, fileType FileType, wait func(), device string) error {
	if wait == nil {
		return fmt.Errorf("%w: wait callback must be specified", ErrInvalidArgument)
	}

	r, err := RecordFileAsync(format, filename, fileType, device)
	if err != nil {
		return err
	}
	wait()
	if err := r.Terminate(); err != nil {
		return err
	}
	return r.Join()
}
