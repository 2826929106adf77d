// Package spectrogram slices a sample buffer into fixed-length frames and holds the magnitude
// spectrum of each frame.
package spectrogram

import (
	"errors"
	"fmt"
	"log/slog"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// DefaultFrameSize is the transform length used when none is configured.
const DefaultFrameSize = 8192

var ErrInvalidFrameSize = errors.New("frame size must be at least 1")

// Spectrogram is a frames x bins matrix of DFT magnitudes.
// An empty spectrogram (no frames) is valid and has a nil backing matrix.
type Spectrogram struct {
	size int // transform length the magnitudes were computed with
	bins int
	data *mat.Dense
}

// New wraps row-major magnitudes computed with a transform of length size.
// len(data) must be a multiple of bins.
func New(size, bins int, data []float64) (*Spectrogram, error) {
	if size < 1 || bins < 1 {
		return nil, ErrInvalidFrameSize
	}

	if len(data)%bins != 0 {
		return nil, fmt.Errorf("%d values do not fill rows of %d bins", len(data), bins)
	}

	s := &Spectrogram{size: size, bins: bins}
	if len(data) > 0 {
		s.data = mat.NewDense(len(data)/bins, bins, data)
	}

	return s, nil
}

// Build computes one magnitude row per frame of frameSize samples. The last frame is zero-padded.
// Magnitudes are not normalized.
func Build(samples []float64, frameSize int) (*Spectrogram, error) {
	if frameSize < 1 {
		return nil, ErrInvalidFrameSize
	}

	frames := (len(samples) + frameSize - 1) / frameSize

	slog.Debug("spectrogram.Build", "samples", len(samples), "frame size", frameSize, "frames", frames)

	spec := &Spectrogram{size: frameSize, bins: frameSize}
	if frames == 0 {
		return spec, nil
	}

	spec.data = mat.NewDense(frames, frameSize, nil)

	fft := fourier.NewFFT(frameSize)
	frame := make([]float64, frameSize)
	coeffs := make([]complex128, frameSize/2+1)

	for t := range frames {
		start := t * frameSize
		end := min(start+frameSize, len(samples))

		n := copy(frame, samples[start:end])
		clear(frame[n:])

		coeffs = fft.Coefficients(coeffs, frame)
		row := spec.data.RawRowView(t)

		for k, c := range coeffs {
			row[k] = cmplx.Abs(c)
		}

		// Real input: the upper half mirrors the lower one, |X[L-k]| = |X[k]|.
		for k := len(coeffs); k < frameSize; k++ {
			row[k] = row[frameSize-k]
		}
	}

	return spec, nil
}

// Frames returns the number of rows.
func (s *Spectrogram) Frames() int {
	if s.data == nil {
		return 0
	}

	rows, _ := s.data.Dims()

	return rows
}

// Bins returns the number of columns.
func (s *Spectrogram) Bins() int {
	return s.bins
}

// Size returns the transform length, which stays the frame size after Trim.
func (s *Spectrogram) Size() int {
	return s.size
}

// BinWidth returns the frequency spacing between adjacent bins, in Hz. It divides by the
// transform length, not the column count, so it stays valid on a trimmed spectrogram.
func (s *Spectrogram) BinWidth(sampleRate float64) float64 {
	return sampleRate / float64(s.size)
}

// At returns the magnitude of bin j in frame i.
func (s *Spectrogram) At(i, j int) float64 {
	return s.data.At(i, j)
}

// Row returns frame i. The slice aliases the spectrogram and must not be modified.
func (s *Spectrogram) Row(i int) []float64 {
	return s.data.RawRowView(i)
}

// Max returns the largest magnitude, or 0 for an empty spectrogram.
func (s *Spectrogram) Max() float64 {
	if s.data == nil {
		return 0
	}

	return mat.Max(s.data)
}

// Clone returns a deep copy.
func (s *Spectrogram) Clone() *Spectrogram {
	out := &Spectrogram{size: s.size, bins: s.bins}
	if s.data != nil {
		out.data = mat.DenseCopyOf(s.data)
	}

	return out
}

// Apply replaces every value v at (i, j) with fn(i, j, v), in place.
func (s *Spectrogram) Apply(fn func(i, j int, v float64) float64) {
	if s.data == nil {
		return
	}

	s.data.Apply(fn, s.data)
}

// Trim keeps bins [0, ceil(bins/2)), dropping the mirrored negative-frequency half.
// The result is a view sharing storage with s.
func (s *Spectrogram) Trim() *Spectrogram {
	keep := (s.bins + 1) / 2
	out := &Spectrogram{size: s.size, bins: keep}

	if s.data != nil {
		rows := s.Frames()
		out.data = s.data.Slice(0, rows, 0, keep).(*mat.Dense) //nolint:forcetypeassert // Dense slices are Dense
	}

	slog.Debug("spectrogram.Trim", "from", [2]int{s.Frames(), s.bins}, "to", [2]int{out.Frames(), keep})

	return out
}
