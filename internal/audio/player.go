package audio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"syscall"
)

// Player owns at most one active playback process. FilePlayer and
// BytesPlayer build on it for the two playback sources.
type Player struct {
	mu  sync.Mutex
	cmd *exec.Cmd

	started     chan struct{}
	startedOnce sync.Once

	joinOnce sync.Once
	joinErr  error
}

// NewPlayer creates a player in the not-started state.
func NewPlayer() *Player {
	return &Player{started: make(chan struct{})}
}

// Start spawns the playback process with the given argument list and
// signals started.
func (p *Player) Start(args []string) error {
	_, err := p.start(args, false)
	return err
}

// StartWithInput spawns the playback process with its stdin redirected
// to a pipe and returns the pipe's write end.
func (p *Player) StartWithInput(args []string) (io.WriteCloser, error) {
	return p.start(args, true)
}

func (p *Player) start(args []string, withStdin bool) (io.WriteCloser, error) {
	cmd := exec.Command(args[0], args[1:]...)

	var stdin io.WriteCloser
	if withStdin {
		var err error
		stdin, err = cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
		}
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", args[0], err)
	}

	p.mu.Lock()
	p.cmd = cmd
	p.mu.Unlock()
	p.startedOnce.Do(func() { close(p.started) })

	slog.Debug("Playback process started", "command", strings.Join(args, " "))
	return stdin, nil
}

// Join blocks until the playback process has been started and then
// until it exits. It is the scoped-resource exit action: defer it after
// a successful start.
func (p *Player) Join() error {
	<-p.started
	p.joinOnce.Do(func() {
		p.mu.Lock()
		cmd := p.cmd
		p.mu.Unlock()

		err := cmd.Wait()
		if err == nil {
			return
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
				slog.Debug("Playback process exited on signal", "state", exitErr.ProcessState.String())
				return
			}
		}
		p.joinErr = fmt.Errorf("playback process failed: %w", err)
	})
	return p.joinErr
}

// Process exposes the owned child-process handle, nil before Start.
func (p *Player) Process() *exec.Cmd {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmd
}

// FilePlayer plays audio straight from a file on disk.
type FilePlayer struct {
	Player
}

// NewFilePlayer creates a file-backed player.
func NewFilePlayer() *FilePlayer {
	return &FilePlayer{Player: Player{started: make(chan struct{})}}
}

// PlayRaw starts playback of a headerless PCM file. The format must be
// given since the file cannot describe itself.
func (p *FilePlayer) PlayRaw(format Format, filename, device string) error {
	args, err := PlayCommand(&format, FileTypeRaw, filename, device)
	if err != nil {
		return err
	}
	return p.Start(args)
}

// PlayWav starts playback of a WAV file; the container header carries
// the format.
func (p *FilePlayer) PlayWav(filename, device string) error {
	args, err := PlayCommand(nil, FileTypeWav, filename, device)
	if err != nil {
		return err
	}
	return p.Start(args)
}

// PushFunc feeds chunks to a playback process. Pushing an empty or nil
// chunk closes the input stream exactly once, signalling end of audio.
type PushFunc func(data []byte) error

// BytesPlayer plays raw PCM chunks pushed by the caller.
type BytesPlayer struct {
	Player
}

// NewBytesPlayer creates a byte-stream-backed player.
func NewBytesPlayer() *BytesPlayer {
	return &BytesPlayer{Player: Player{started: make(chan struct{})}}
}

// Play spawns the playback process reading from a pipe and returns the
// push function feeding it.
func (p *BytesPlayer) Play(format Format, device string) (PushFunc, error) {
	args, err := PlayCommand(&format, FileTypeRaw, "", device)
	if err != nil {
		return nil, err
	}
	stdin, err := p.StartWithInput(args)
	if err != nil {
		return nil, err
	}
	return newPushFunc(stdin), nil
}

func newPushFunc(w io.WriteCloser) PushFunc {
	var closeOnce sync.Once
	return func(data []byte) error {
		if len(data) > 0 {
			if _, err := w.Write(data); err != nil {
				return fmt.Errorf("failed to write to playback process: %w", err)
			}
			return nil
		}
		var err error
		closeOnce.Do(func() { err = w.Close() })
		return err
	}
}
