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
	"time"
)

// RecordOptions configures a single capture run.
type RecordOptions struct {
	Format        Format
	ChunkDuration time.Duration
	Device        string
	NumChunks     int    // 0 records until stopped or the stream ends
	OnStart       func() // invoked after the process is launched, before the first read
	OnStop        func() // invoked on every exit path of the chunk loop
	Filename      string // optional WAV tee receiving every chunk in order
}

// Recorder owns at most one active capture process and streams its
// output as fixed-size chunks. A Recorder is single-use: create one per
// recording.
type Recorder struct {
	mu  sync.Mutex
	cmd *exec.Cmd

	started     chan struct{}
	startedOnce sync.Once
	done        chan struct{}
	doneOnce    sync.Once

	joinOnce sync.Once
	joinErr  error
}

// NewRecorder creates a recorder in the not-started state.
func NewRecorder() *Recorder {
	return &Recorder{
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Record spawns the capture process and returns a channel of raw PCM
// chunks of ChunkDuration each. The channel is closed when NumChunks
// chunks have been delivered, the stream ends, or Done is called; the
// final chunk may be short at end of stream. Cleanup (stream close,
// OnStop, WAV finalisation) runs on every exit path. Callers should
// drain the channel and then call Join.
func (r *Recorder) Record(opts RecordOptions) (<-chan []byte, error) {
	chunkSize := int(opts.ChunkDuration.Seconds() * float64(opts.Format.BytesPerSecond()))
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk duration must be positive", ErrInvalidArgument)
	}

	args, err := RecordCommand(opts.Format, FileTypeRaw, "", opts.Device)
	if err != nil {
		return nil, err
	}

	var tee *wavFile
	if opts.Filename != "" {
		tee, err = newWavFile(opts.Filename, opts.Format)
		if err != nil {
			return nil, err
		}
	}

	cmd := exec.Command(args[0], args[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		if tee != nil {
			tee.Close()
		}
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		if tee != nil {
			tee.Close()
		}
		return nil, fmt.Errorf("failed to start %s: %w", args[0], err)
	}

	r.mu.Lock()
	r.cmd = cmd
	r.mu.Unlock()
	r.startedOnce.Do(func() { close(r.started) })

	slog.Debug("Capture process started", "command", strings.Join(args, " "), "chunk_size", chunkSize)

	if opts.OnStart != nil {
		opts.OnStart()
	}

	chunks := make(chan []byte)
	go r.stream(stdout, tee, chunkSize, opts.NumChunks, opts.OnStop, chunks)
	return chunks, nil
}

// stream reads fixed-size chunks from the capture stream and delivers
// them in order, tee'ing each one to the WAV file when present.
func (r *Recorder) stream(stdout io.ReadCloser, tee *wavFile, chunkSize, numChunks int, onStop func(), out chan<- []byte) {
	defer func() {
		stdout.Close()
		if onStop != nil {
			onStop()
		}
		if tee != nil {
			if err := tee.Close(); err != nil {
				slog.Error("Failed to finalize capture file", "error", err)
			}
		}
		close(out)
	}()

	for i := 0; numChunks == 0 || i < numChunks; i++ {
		select {
		case <-r.done:
			return
		default:
		}

		buf := make([]byte, chunkSize)
		n, err := io.ReadFull(stdout, buf)
		if n == 0 {
			// Zero-length read: the process ended or the stream
			// closed. Normal termination, not an error.
			return
		}
		if tee != nil {
			if werr := tee.WriteChunk(buf[:n]); werr != nil {
				slog.Error("Failed to write capture file", "error", werr)
			}
		}
		select {
		case out <- buf[:n]:
		case <-r.done:
			return
		}
		if err != nil {
			// Short final chunk at end of stream.
			return
		}
	}
}

// startDirect spawns a capture process that writes to its own output
// file, with no chunk streaming. Used by the file-recording helpers.
func (r *Recorder) startDirect(args []string) error {
	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", args[0], err)
	}

	r.mu.Lock()
	r.cmd = cmd
	r.mu.Unlock()
	r.startedOnce.Do(func() { close(r.started) })

	slog.Debug("Capture process started", "command", strings.Join(args, " "))
	return nil
}

// Done cooperatively requests the chunk loop to stop. It is idempotent
// and does not itself stop the process; the loop observes the signal on
// its next iteration and tears the process down by closing its stream.
func (r *Recorder) Done() {
	r.doneOnce.Do(func() { close(r.done) })
}

// Join blocks until the capture process has been started and then until
// it exits. Termination by signal (the cooperative and forceful stop
// paths both end in one) is not treated as a failure.
func (r *Recorder) Join() error {
	<-r.started
	r.joinOnce.Do(func() {
		r.mu.Lock()
		cmd := r.cmd
		r.mu.Unlock()

		err := cmd.Wait()
		if err == nil {
			return
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
				slog.Debug("Capture process exited on signal", "state", exitErr.ProcessState.String())
				return
			}
		}
		r.joinErr = fmt.Errorf("capture process failed: %w", err)
	})
	return r.joinErr
}

// Terminate sends SIGTERM to the capture process. Used by the
// synchronous file-recording path; chunk consumers normally stop with
// Done instead.
func (r *Recorder) Terminate() error {
	r.mu.Lock()
	cmd := r.cmd
	r.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to terminate capture process: %w", err)
	}
	return nil
}

// Process exposes the owned child-process handle, nil before Record.
func (r *Recorder) Process() *exec.Cmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd
}
