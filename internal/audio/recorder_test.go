package audio

import (
	"bytes"
	"io"
	"testing"
)

func collectChunks(t *testing.T, r *Recorder, data []byte, chunkSize, numChunks int, onStop func()) [][]byte {
	t.Helper()

	out := make(chan []byte)
	go r.stream(io.NopCloser(bytes.NewReader(data)), nil, chunkSize, numChunks, onStop, out)

	var chunks [][]byte
	for chunk := range out {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func TestRecorder_StreamChunksUntilEOF(t *testing.T) {
	// 0.1s of 16 kHz mono 16-bit audio per chunk.
	format := Format{SampleRateHz: 16000, NumChannels: 1, BytesPerSample: 2}
	chunkSize := format.BytesPerSecond() / 10
	if chunkSize != 3200 {
		t.Fatalf("Expected chunk size 3200, got %d", chunkSize)
	}

	stopped := false
	chunks := collectChunks(t, NewRecorder(), make([]byte, 3*chunkSize), chunkSize, 0, func() { stopped = true })

	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) != chunkSize {
			t.Errorf("Chunk %d: expected %d bytes, got %d", i, chunkSize, len(chunk))
		}
	}
	if !stopped {
		t.Error("Expected the stop callback to run on loop exit")
	}
}

func TestRecorder_StreamBoundedByNumChunks(t *testing.T) {
	chunks := collectChunks(t, NewRecorder(), make([]byte, 100), 10, 4, nil)

	if len(chunks) != 4 {
		t.Errorf("Expected 4 chunks with num_chunks=4, got %d", len(chunks))
	}
}

func TestRecorder_StreamShortFinalChunk(t *testing.T) {
	chunks := collectChunks(t, NewRecorder(), make([]byte, 25), 10, 0, nil)

	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[2]) != 5 {
		t.Errorf("Expected final chunk of 5 bytes, got %d", len(chunks[2]))
	}
}

func TestRecorder_DoneStopsStream(t *testing.T) {
	r := NewRecorder()
	r.Done()
	r.Done() // idempotent

	stopped := false
	chunks := collectChunks(t, r, make([]byte, 100), 10, 0, func() { stopped = true })

	if len(chunks) != 0 {
		t.Errorf("Expected no chunks after Done, got %d", len(chunks))
	}
	if !stopped {
		t.Error("Expected the stop callback to run after Done")
	}
}

func TestRecorder_DoneUnblocksPendingSend(t *testing.T) {
	r := NewRecorder()
	out := make(chan []byte)
	finished := make(chan struct{})
	go func() {
		r.stream(io.NopCloser(bytes.NewReader(make([]byte, 100))), nil, 10, 0, nil, out)
		close(finished)
	}()

	// Nobody reads from out; the producer is blocked on its first send.
	r.Done()
	<-finished
}

func TestRecorder_StreamTeesToWavFile(t *testing.T) {
	format := Format{SampleRateHz: 16000, NumChannels: 1, BytesPerSample: 2}
	path := t.TempDir() + "/tee.wav"
	tee, err := newWavFile(path, format)
	if err != nil {
		t.Fatalf("Expected no error creating tee file, got: %v", err)
	}

	out := make(chan []byte)
	go NewRecorder().stream(io.NopCloser(bytes.NewReader(make([]byte, 64))), tee, 32, 0, nil, out)
	count := 0
	for range out {
		count++
	}
	if count != 2 {
		t.Fatalf("Expected 2 chunks, got %d", count)
	}

	got, err := WavFormat(path)
	if err != nil {
		t.Fatalf("Expected a readable wav file, got: %v", err)
	}
	if got != format {
		t.Errorf("Expected tee file format %+v, got %+v", format, got)
	}
}

func TestRecorder_RecordRejectsZeroChunkDuration(t *testing.T) {
	_, err := NewRecorder().Record(RecordOptions{Format: CD})
	if err == nil {
		t.Error("Expected an error for zero chunk duration")
	}
}
