package tessitura

import (
	"fmt"

	"github.com/farcloser/tessitura/internal/dominant"
	"github.com/farcloser/tessitura/internal/pitch"
	"github.com/farcloser/tessitura/internal/spectrogram"
)

// Options configures the analysis. Zero fields take their default.
type Options struct {
	// FrameSize is the transform length in samples (default: 8192).
	FrameSize int

	// ReferencePitch is A4 in Hz (default: 440).
	ReferencePitch float64

	// ThresholdRatio is the noise floor relative to the loudest bin of the whole recording
	// (default: 0.01, i.e. -40 dB).
	ThresholdRatio float64

	// DisableThreshold keeps every bin, forcing ThresholdRatio to 0.
	DisableThreshold bool
}

// DefaultOptions returns options for concert tuning.
func DefaultOptions() Options {
	return OptionsForTuning(TuningConcert)
}

// Tuning is a named reference pitch for A4.
type Tuning int

const (
	TuningConcert   Tuning = iota // A4 = 440 Hz (default).
	TuningBaroque                 // A4 = 415 Hz.
	TuningClassical               // A4 = 430 Hz.
	TuningVerdi                   // A4 = 432 Hz.
)

func (t Tuning) String() string {
	switch t {
	case TuningConcert:
		return "concert"
	case TuningBaroque:
		return "baroque"
	case TuningClassical:
		return "classical"
	case TuningVerdi:
		return "verdi"
	}

	return "unknown"
}

// Reference returns the A4 frequency of the tuning, in Hz.
func (t Tuning) Reference() float64 {
	switch t {
	case TuningBaroque:
		return 415
	case TuningClassical:
		return 430
	case TuningVerdi:
		return 432
	default:
		return pitch.ConcertA
	}
}

// ParseTuning converts a string to a Tuning value.
func ParseTuning(s string) (Tuning, error) {
	switch s {
	case "concert", "":
		return TuningConcert, nil
	case "baroque":
		return TuningBaroque, nil
	case "classical":
		return TuningClassical, nil
	case "verdi":
		return TuningVerdi, nil
	default:
		return 0, fmt.Errorf("unknown tuning %q (valid: concert, baroque, classical, verdi)", s)
	}
}

// OptionsForTuning returns the default Options with A4 set by the tuning.
func OptionsForTuning(tuning Tuning) Options {
	return Options{
		FrameSize:      spectrogram.DefaultFrameSize,
		ReferencePitch: tuning.Reference(),
		ThresholdRatio: dominant.DefaultThresholdRatio,
	}
}

func applyDefaults(opts *Options) {
	defaults := DefaultOptions()

	if opts.FrameSize == 0 {
		opts.FrameSize = defaults.FrameSize
	}

	if opts.ReferencePitch == 0 {
		opts.ReferencePitch = defaults.ReferencePitch
	}

	switch {
	case opts.DisableThreshold:
		opts.ThresholdRatio = 0
	case opts.ThresholdRatio == 0:
		opts.ThresholdRatio = defaults.ThresholdRatio
	}
}
