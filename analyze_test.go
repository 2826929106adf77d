package tessitura_test

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/farcloser/tessitura"
	"github.com/farcloser/tessitura/internal/types"
)

func tone(freq float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 10000 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}

	return out
}

func TestAnalyzeConcertA(t *testing.T) {
	buf := &types.SampleBuffer{SampleRate: 44100, Samples: tone(440, 44100, 44100)}

	result, err := tessitura.Analyze(buf, tessitura.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if got := result.Spectrogram.Frames(); got != 6 {
		t.Fatalf("got %d frames, want 6", got)
	}

	if got := result.Spectrogram.Bins(); got != 8192 {
		t.Errorf("got %d bins, want the untrimmed 8192", got)
	}

	binWidth := 44100.0 / 8192

	for i, f := range result.Frequencies {
		if math.Abs(f-440) > binWidth {
			t.Errorf("frame %d: got %.2f Hz, want 440 within %.2f", i, f, binWidth)
		}
	}

	for i, key := range result.PianoKeys() {
		if key != 49 {
			t.Errorf("frame %d: got key %g, want 49", i, key)
		}
	}

	names := result.ScientificNames()
	if len(names) != 6 || !slices.Contains(names, "A4") {
		t.Errorf("got %v, want six A4", names)
	}

	summary := result.Summary()
	if summary.Detected != 6 || math.Abs(summary.MeanFrequency-440) > binWidth {
		t.Errorf("got summary %+v", summary)
	}
}

func TestAnalyzeFollowsFrames(t *testing.T) {
	samples := append(tone(440, 44100, 8192), tone(880, 44100, 8192)...)
	samples = append(samples, make([]float64, 8192)...)

	result, err := tessitura.Analyze(&types.SampleBuffer{SampleRate: 44100, Samples: samples}, tessitura.Options{})
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(result.ScientificNames(), []string{"A4", "A5"}) {
		t.Errorf("got %v, want [A4 A5]", result.ScientificNames())
	}

	keys := result.PianoKeys()
	if keys[0] != 49 || keys[1] != 61 || !math.IsInf(keys[2], -1) {
		t.Errorf("got keys %v, want [49 61 -Inf]", keys)
	}

	if result.Detected() != 2 {
		t.Errorf("got %d detected frames, want 2", result.Detected())
	}
}

func TestAnalyzeSilence(t *testing.T) {
	result, err := tessitura.Analyze(&types.SampleBuffer{SampleRate: 8000, Samples: make([]float64, 10000)}, tessitura.Options{})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Frequencies) != 2 {
		t.Fatalf("got %d frames, want 2", len(result.Frequencies))
	}

	for i, p := range result.Pitches {
		if result.Frequencies[i] != 0 || !p.Silent || !math.IsInf(p.KeyValue(), -1) {
			t.Errorf("frame %d: got %+v at %g Hz, want silent", i, p, result.Frequencies[i])
		}
	}

	if names := result.ScientificNames(); len(names) != 0 {
		t.Errorf("got %v, want no names", names)
	}

	if summary := result.Summary(); summary.Detected != 0 || !math.IsNaN(summary.MeanFrequency) {
		t.Errorf("got summary %+v", summary)
	}
}

func TestAnalyzeEmptyBuffer(t *testing.T) {
	result, err := tessitura.Analyze(&types.SampleBuffer{SampleRate: 44100}, tessitura.Options{})
	if err != nil {
		t.Fatal(err)
	}

	if result.Spectrogram.Frames() != 0 || len(result.Pitches) != 0 {
		t.Errorf("got %d frames, %d pitches, want none", result.Spectrogram.Frames(), len(result.Pitches))
	}
}

func TestAnalyzeDoesNotModifyInput(t *testing.T) {
	samples := tone(440, 8000, 3000)
	original := slices.Clone(samples)

	if _, err := tessitura.Analyze(&types.SampleBuffer{SampleRate: 8000, Samples: samples}, tessitura.Options{FrameSize: 1024}); err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(samples, original) {
		t.Error("samples were modified")
	}
}

func TestAnalyzeTuning(t *testing.T) {
	buf := &types.SampleBuffer{SampleRate: 44100, Samples: tone(415, 44100, 16384)}

	concert, err := tessitura.Analyze(buf, tessitura.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	baroque, err := tessitura.Analyze(buf, tessitura.OptionsForTuning(tessitura.TuningBaroque))
	if err != nil {
		t.Fatal(err)
	}

	if got := concert.ScientificNames(); got[0] != "G#4" {
		t.Errorf("concert: got %v, want G#4", got)
	}

	if got := baroque.ScientificNames(); got[0] != "A4" {
		t.Errorf("baroque: got %v, want A4", got)
	}
}

func TestAnalyzeInvalid(t *testing.T) {
	samples := tone(440, 8000, 100)

	cases := []struct {
		name string
		buf  *types.SampleBuffer
		opts tessitura.Options
	}{
		{"nil buffer", nil, tessitura.Options{}},
		{"zero sample rate", &types.SampleBuffer{Samples: samples}, tessitura.Options{}},
		{"negative frame size", &types.SampleBuffer{SampleRate: 8000, Samples: samples}, tessitura.Options{FrameSize: -1}},
		{"negative reference", &types.SampleBuffer{SampleRate: 8000, Samples: samples}, tessitura.Options{ReferencePitch: -440}},
		{"ratio above one", &types.SampleBuffer{SampleRate: 8000, Samples: samples}, tessitura.Options{ThresholdRatio: 2}},
	}

	for _, tc := range cases {
		if _, err := tessitura.Analyze(tc.buf, tc.opts); err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
	}

	if _, err := tessitura.Analyze(nil, tessitura.Options{}); !errors.Is(err, tessitura.ErrNoSamples) {
		t.Errorf("nil buffer: got %v, want ErrNoSamples", err)
	}

	if _, err := tessitura.Analyze(&types.SampleBuffer{Samples: samples}, tessitura.Options{}); !errors.Is(err, tessitura.ErrInvalidRate) {
		t.Errorf("zero sample rate: got %v, want ErrInvalidRate", err)
	}
}

func TestParseTuning(t *testing.T) {
	for _, name := range []string{"concert", "baroque", "classical", "verdi"} {
		tuning, err := tessitura.ParseTuning(name)
		if err != nil {
			t.Fatal(err)
		}

		if tuning.String() != name {
			t.Errorf("got %q, want %q", tuning.String(), name)
		}
	}

	if tuning, err := tessitura.ParseTuning(""); err != nil || tuning != tessitura.TuningConcert {
		t.Errorf("empty tuning: got %v, %v", tuning, err)
	}

	if _, err := tessitura.ParseTuning("equal"); err == nil {
		t.Error("expected an error for an unknown tuning")
	}
}

func TestAnalyzeDisableThreshold(t *testing.T) {
	// A quiet frame 54 dB below the loud one is silenced by the default noise floor.
	quiet := tone(880, 44100, 8192)
	for i := range quiet {
		quiet[i] /= 500
	}

	buf := &types.SampleBuffer{SampleRate: 44100, Samples: append(tone(440, 44100, 8192), quiet...)}

	floored, err := tessitura.Analyze(buf, tessitura.Options{})
	if err != nil {
		t.Fatal(err)
	}

	if got := floored.ScientificNames(); !slices.Equal(got, []string{"A4"}) {
		t.Errorf("default threshold: got %v, want [A4]", got)
	}

	open, err := tessitura.Analyze(buf, tessitura.Options{ThresholdRatio: 0.5, DisableThreshold: true})
	if err != nil {
		t.Fatal(err)
	}

	if open.Options.ThresholdRatio != 0 {
		t.Errorf("got effective ratio %g, want 0", open.Options.ThresholdRatio)
	}

	if got := open.ScientificNames(); !slices.Equal(got, []string{"A4", "A5"}) {
		t.Errorf("disabled threshold: got %v, want [A4 A5]", got)
	}
}
