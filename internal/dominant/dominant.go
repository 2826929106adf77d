// Package dominant picks the strongest frequency of every spectrogram frame.
package dominant

import (
	"errors"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"github.com/farcloser/tessitura/internal/spectrogram"
)

// DefaultThresholdRatio keeps magnitudes within 40 dB of the global peak.
const DefaultThresholdRatio = 0.01

var ErrInvalidRatio = errors.New("threshold ratio must be within [0, 1]")

// Threshold returns a copy of spec where every magnitude strictly below ratio times the global
// maximum is zeroed. spec is left untouched.
func Threshold(spec *spectrogram.Spectrogram, ratio float64) (*spectrogram.Spectrogram, error) {
	if ratio < 0 || ratio > 1 {
		return nil, ErrInvalidRatio
	}

	floor := ratio * spec.Max()
	out := spec.Clone()

	var zeroed int

	out.Apply(func(_, _ int, v float64) float64 {
		if v < floor {
			zeroed++

			return 0
		}

		return v
	})

	slog.Debug("dominant.Threshold", "ratio", ratio, "floor", floor, "zeroed", zeroed)

	return out, nil
}

// Frequencies returns, for every frame, the frequency in Hz of its strongest bin once the
// noise floor has been removed. Ties resolve to the lowest bin. A frame with nothing above
// the floor reports 0.
func Frequencies(spec *spectrogram.Spectrogram, sampleRate, ratio float64) ([]float64, error) {
	cleaned, err := Threshold(spec, ratio)
	if err != nil {
		return nil, err
	}

	binWidth := spec.BinWidth(sampleRate)
	freqs := make([]float64, cleaned.Frames())

	for i := range freqs {
		freqs[i] = float64(floats.MaxIdx(cleaned.Row(i))) * binWidth
	}

	return freqs, nil
}
