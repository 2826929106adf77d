package types

// BitDepth is the width of a signed little-endian PCM sample.
type BitDepth uint

const (
	Depth16 BitDepth = 16
	Depth24 BitDepth = 24
	Depth32 BitDepth = 32
)

// FullScale returns the normalization divisor for signed PCM at this depth (2^(depth-1)).
func (b BitDepth) FullScale() float64 {
	switch b {
	case Depth16:
		return 32768.0
	case Depth24:
		return 8388608.0
	case Depth32:
		return 2147483648.0
	}

	return 1
}

// PCMFormat describes interleaved raw PCM.
type PCMFormat struct {
	SampleRate int
	BitDepth   BitDepth
	Channels   uint
}

// SampleBuffer is a single channel of amplitudes, multi-channel sources being summed per time step.
type SampleBuffer struct {
	SampleRate int
	Samples    []float64

	// Informational: what the source looked like before downmix.
	Channels int
	BitDepth BitDepth
}

// Duration returns the buffer length in seconds.
func (b *SampleBuffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}

	return float64(len(b.Samples)) / float64(b.SampleRate)
}
