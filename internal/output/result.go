// Package output serializes analysis results: the three result files, and the report map
// printed through primordium formatters.
package output

import (
	"fmt"
	"strings"

	"github.com/farcloser/tessitura"
	"github.com/farcloser/tessitura/internal/pitch"
)

// ResultToMap converts an analysis result into the report structure.
// With frames set, every per-frame estimate is included.
func ResultToMap(result *tessitura.Result, frames bool) map[string]any {
	summary := result.Summary()

	meta := map[string]any{
		"sample_rate": result.SampleRate,
		"samples":     result.Samples,
		"duration":    fmt.Sprintf("%.3f s", float64(result.Samples)/float64(result.SampleRate)),
		"options": map[string]any{
			"frame_size":      result.Options.FrameSize,
			"reference_pitch": result.Options.ReferencePitch,
			"threshold_ratio": result.Options.ThresholdRatio,
		},
		"spectrogram": map[string]any{
			"frames":    result.Spectrogram.Frames(),
			"bins":      result.Spectrogram.Bins(),
			"bin_width": fmt.Sprintf("%.3f Hz", result.Spectrogram.BinWidth(float64(result.SampleRate))),
		},
		"scientific": strings.Join(result.ScientificNames(), " "),
	}

	pitches := map[string]any{
		"frames":   summary.Frames,
		"detected": summary.Detected,
	}

	if summary.Detected > 0 {
		pitches["mean_frequency"] = fmt.Sprintf("%.2f Hz", summary.MeanFrequency)
		pitches["min_frequency"] = fmt.Sprintf("%.2f Hz", summary.MinFrequency)
		pitches["max_frequency"] = fmt.Sprintf("%.2f Hz", summary.MaxFrequency)
	}

	meta["pitches"] = pitches

	if frames {
		meta["frames"] = PitchesToList(result.Pitches)
	}

	return meta
}

// PitchesToList converts per-frame estimates to a list of maps.
func PitchesToList(pitches []pitch.Pitch) []any {
	list := make([]any, 0, len(pitches))

	for i, p := range pitches {
		entry := map[string]any{
			"frame":     i,
			"frequency": p.Frequency,
			"silent":    p.Silent,
		}

		if !p.Silent {
			entry["key"] = p.Key
		}

		if p.Named() {
			entry["name"] = p.Name
		}

		list = append(list, entry)
	}

	return list
}
