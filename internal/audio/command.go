package audio

import (
	"errors"
	"fmt"
	"strconv"
)

// FileType identifies the container type passed to arecord/aplay via -t.
type FileType string

const (
	FileTypeWav FileType = "wav"
	FileTypeRaw FileType = "raw"
	FileTypeVoc FileType = "voc"
	FileTypeAu  FileType = "au"
)

// DefaultDevice is the ALSA device used when none is configured.
// Device names are opaque strings passed through to the tools unmodified.
const DefaultDevice = "default"

// ErrInvalidArgument is returned for missing or contradictory
// format/file-type parameters, before any process is spawned.
var ErrInvalidArgument = errors.New("invalid argument")

func (t FileType) valid() bool {
	switch t {
	case FileTypeWav, FileTypeRaw, FileTypeVoc, FileTypeAu:
		return true
	}
	return false
}

// RecordCommand builds the arecord argument list for capturing audio in
// the given format. With an empty filename arecord writes to stdout.
func RecordCommand(format Format, fileType FileType, filename, device string) ([]string, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: format must have positive sample rate, channels and sample width", ErrInvalidArgument)
	}
	if !fileType.valid() {
		return nil, fmt.Errorf("%w: file type must be wav, raw, voc or au, got %q", ErrInvalidArgument, fileType)
	}
	if device == "" {
		device = DefaultDevice
	}

	args := []string{
		"arecord", "-q",
		"-t", string(fileType),
		"-D", device,
		"-c", strconv.Itoa(format.NumChannels),
		"-f", fmt.Sprintf("s%d", format.BitsPerSample()),
		"-r", strconv.Itoa(format.SampleRateHz),
	}
	if filename != "" {
		args = append(args, filename)
	}
	return args, nil
}

// PlayCommand builds the aplay argument list. format may be nil for
// self-describing container types; raw playback requires it. With an
// empty filename aplay reads from stdin.
func PlayCommand(format *Format, fileType FileType, filename, device string) ([]string, error) {
	if fileType == FileTypeRaw && format == nil {
		return nil, fmt.Errorf("%w: raw playback requires an explicit format", ErrInvalidArgument)
	}
	if format != nil && !format.Valid() {
		return nil, fmt.Errorf("%w: format must have positive sample rate, channels and sample width", ErrInvalidArgument)
	}
	if device == "" {
		device = DefaultDevice
	}

	args := []string{"aplay", "-q", "-t", string(fileType), "-D", device}
	if format != nil {
		args = append(args,
			"-c", strconv.Itoa(format.NumChannels),
			"-f", fmt.Sprintf("s%d", format.BitsPerSample()),
			"-r", strconv.Itoa(format.SampleRateHz),
		)
	}
	if filename != "" {
		args = append(args, filename)
	}
	return args, nil
}
