package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

// pcmFormat is the WAV audio format tag for uncompressed PCM.
const pcmFormat = 1

// wavFile couples a WAV encoder with its backing file so both are
// finalised together.
type wavFile struct {
	handle  *os.File
	encoder *wav.Encoder
	format  Format
}

// newWavFile creates path for writing with header fields taken from
// format.
func newWavFile(path string, format Format) (*wavFile, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: format must have positive sample rate, channels and sample width", ErrInvalidArgument)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	enc := wav.NewEncoder(f, format.SampleRateHz, format.BitsPerSample(), format.NumChannels, pcmFormat)
	return &wavFile{handle: f, encoder: enc, format: format}, nil
}

// WriteChunk appends a chunk of raw little-endian PCM bytes as frames.
func (w *wavFile) WriteChunk(data []byte) error {
	buf := &gaudio.IntBuffer{
		Data: bytesToInts(data, w.format.BytesPerSample),
		Format: &gaudio.Format{
			SampleRate:  w.format.SampleRateHz,
			NumChannels: w.format.NumChannels,
		},
		SourceBitDepth: w.format.BitsPerSample(),
	}
	if err := w.encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to write wav frames: %w", err)
	}
	return nil
}

// Close finalises the WAV header and closes the file.
func (w *wavFile) Close() error {
	if err := w.encoder.Close(); err != nil {
		w.handle.Close()
		return fmt.Errorf("failed to finalize wav file: %w", err)
	}
	if err := w.handle.Close(); err != nil {
		return fmt.Errorf("failed to close wav file: %w", err)
	}
	return nil
}

// WavFormat reads the header of a WAV file back into a Format.
func WavFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Format{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return readWavFormat(f)
}

func readWavFormat(r io.ReadSeeker) (Format, error) {
	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return Format{}, fmt.Errorf("failed to read wav header: %w", err)
	}
	format := Format{
		SampleRateHz:   int(dec.SampleRate),
		NumChannels:    int(dec.NumChans),
		BytesPerSample: int(dec.BitDepth) / 8,
	}
	if !format.Valid() {
		return Format{}, fmt.Errorf("%w: wav header carries no usable format", ErrInvalidArgument)
	}
	return format, nil
}

// EncodeWav wraps raw PCM bytes in a WAV container in memory, so raw
// captures can feed the WAV playback helpers. The encoder needs a
// WriteSeeker to finalise its header, hence the in-memory filesystem.
func EncodeWav(format Format, pcm []byte) ([]byte, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: format must have positive sample rate, channels and sample width", ErrInvalidArgument)
	}

	fs := afero.NewMemMapFs()
	const name = "encoded.wav"
	f, err := fs.Create(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory file: %w", err)
	}

	enc := wav.NewEncoder(f, format.SampleRateHz, format.BitsPerSample(), format.NumChannels, pcmFormat)
	buf := &gaudio.IntBuffer{
		Data: bytesToInts(pcm, format.BytesPerSample),
		Format: &gaudio.Format{
			SampleRate:  format.SampleRateHz,
			NumChannels: format.NumChannels,
		},
		SourceBitDepth: format.BitsPerSample(),
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize wav: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close in-memory file: %w", err)
	}

	out, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read back in-memory file: %w", err)
	}
	return out, nil
}

// bytesToInts converts little-endian signed PCM bytes to the int
// samples the encoder wants. 8-bit samples are shifted to the unsigned
// range WAV uses at that depth.
func bytesToInts(data []byte, bytesPerSample int) []int {
	switch bytesPerSample {
	case 1:
		out := make([]int, len(data))
		for i, b := range data {
			out[i] = int(int8(b)) + 128
		}
		return out
	case 3:
		out := make([]int, len(data)/3)
		for i := 0; i+2 < len(data); i += 3 {
			v := int32(data[i]) | int32(data[i+1])<<8 | int32(data[i+2])<<16
			if v&0x800000 != 0 {
				v -= 1 << 24
			}
			out[i/3] = int(v)
		}
		return out
	case 4:
		out := make([]int, len(data)/4)
		for i := 0; i+3 < len(data); i += 4 {
			out[i/4] = int(int32(binary.LittleEndian.Uint32(data[i:])))
		}
		return out
	default:
		out := make([]int, len(data)/2)
		for i := 0; i+1 < len(data); i += 2 {
			out[i/2] = int(int16(binary.LittleEndian.Uint16(data[i:])))
		}
		return out
	}
}
