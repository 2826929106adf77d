package tessitura

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/farcloser/tessitura/internal/dominant"
	"github.com/farcloser/tessitura/internal/pitch"
	"github.com/farcloser/tessitura/internal/spectrogram"
	"github.com/farcloser/tessitura/internal/types"
)

/*
Usage:

buf, err := loader.Load(ctx, "song.wav", loader.Options{})
result, err := tessitura.Analyze(buf, tessitura.DefaultOptions())
fmt.Println(strings.Join(result.ScientificNames(), " "))

// Baroque pitch, finer time resolution
opts := tessitura.OptionsForTuning(tessitura.TuningBaroque)
opts.FrameSize = 4096
result, err := tessitura.Analyze(buf, opts)

// Per-frame estimates
for i, p := range result.Pitches {
    if !p.Silent {
        fmt.Printf("frame %d: %.1f Hz key %d %s\n", i, p.Frequency, p.Key, p.Name)
    }
}
*/

var (
	ErrNoSamples        = errors.New("no sample buffer")
	ErrInvalidRate      = errors.New("sample rate must be positive")
	ErrInvalidReference = errors.New("reference pitch must be positive")
)

// Result holds every stage output of one analysis.
type Result struct {
	SampleRate int
	Samples    int
	Options    Options // effective options, defaults applied

	// Spectrogram is the full, untrimmed magnitude matrix.
	Spectrogram *spectrogram.Spectrogram

	// Frequencies is the dominant frequency per frame, in Hz. 0 means nothing was detected.
	Frequencies []float64

	// Pitches is the estimate per frame, in frame order.
	Pitches []pitch.Pitch
}

// Summary describes the detected (non-silent) frames.
type Summary struct {
	Frames        int
	Detected      int
	MeanFrequency float64
	MinFrequency  float64
	MaxFrequency  float64
}

// Analyze runs the whole pipeline over buf: spectrogram, trim, dominant frequency, pitch.
// Every stage completes before the next one starts; buf is not modified.
func Analyze(buf *types.SampleBuffer, opts Options) (*Result, error) {
	if buf == nil {
		return nil, ErrNoSamples
	}

	if buf.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRate, buf.SampleRate)
	}

	applyDefaults(&opts)

	if opts.ReferencePitch < 0 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidReference, opts.ReferencePitch)
	}

	slog.Debug("tessitura.Analyze",
		"sample rate", buf.SampleRate,
		"samples", len(buf.Samples),
		"frame size", opts.FrameSize,
		"reference", opts.ReferencePitch,
		"threshold ratio", opts.ThresholdRatio,
	)

	spec, err := spectrogram.Build(buf.Samples, opts.FrameSize)
	if err != nil {
		return nil, err
	}

	freqs, err := dominant.Frequencies(spec.Trim(), float64(buf.SampleRate), opts.ThresholdRatio)
	if err != nil {
		return nil, err
	}

	pitches := pitch.NewMapper(opts.ReferencePitch).Labels(freqs)

	return &Result{
		SampleRate:  buf.SampleRate,
		Samples:     len(buf.Samples),
		Options:     opts,
		Spectrogram: spec,
		Frequencies: freqs,
		Pitches:     pitches,
	}, nil
}

// PianoKeys returns the key number per frame, negative infinity for silent frames.
func (r *Result) PianoKeys() []float64 {
	keys := make([]float64, len(r.Pitches))
	for i, p := range r.Pitches {
		keys[i] = p.KeyValue()
	}

	return keys
}

// ScientificNames returns the named pitches in frame order. Silent and out-of-range frames are
// skipped, so the result does not index back into frames.
func (r *Result) ScientificNames() []string {
	return pitch.Names(r.Pitches)
}

// Detected returns the number of non-silent frames.
func (r *Result) Detected() int {
	count := 0

	for _, p := range r.Pitches {
		if !p.Silent {
			count++
		}
	}

	return count
}

// Summary aggregates the detected frequencies. Frequency fields are NaN when nothing was detected.
func (r *Result) Summary() Summary {
	detected := make([]float64, 0, len(r.Pitches))

	for _, p := range r.Pitches {
		if !p.Silent {
			detected = append(detected, p.Frequency)
		}
	}

	summary := Summary{
		Frames:        len(r.Pitches),
		Detected:      len(detected),
		MeanFrequency: math.NaN(),
		MinFrequency:  math.NaN(),
		MaxFrequency:  math.NaN(),
	}

	if len(detected) > 0 {
		summary.MeanFrequency = stat.Mean(detected, nil)
		summary.MinFrequency = floats.Min(detected)
		summary.MaxFrequency = floats.Max(detected)
	}

	return summary
}
