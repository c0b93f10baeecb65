package audio

// Format describes a raw PCM stream: sample rate in Hz, number of
// interleaved channels, and bytes per single sample.
type Format struct {
	SampleRateHz   int
	NumChannels    int
	BytesPerSample int
}

// CD is the audio CD format: 44.1 kHz, stereo, 16-bit samples.
var CD = Format{SampleRateHz: 44100, NumChannels: 2, BytesPerSample: 2}

// BytesPerSecond returns the byte rate of the stream.
func (f Format) BytesPerSecond() int {
	return f.SampleRateHz * f.NumChannels * f.BytesPerSample
}

// BitsPerSample returns the sample width in bits, as the ALSA tools
// expect it in their -f flag.
func (f Format) BitsPerSample() int {
	return 8 * f.BytesPerSample
}

// Valid reports whether all format fields are positive.
func (f Format) Valid() bool {
	return f.SampleRateHz > 0 && f.NumChannels > 0 && f.BytesPerSample > 0
}
