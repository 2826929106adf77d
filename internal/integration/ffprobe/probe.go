//nolint:tagliatelle
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"time"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/tessitura/internal/integration/binary"
	"github.com/farcloser/tessitura/internal/types"
)

const (
	name = "ffprobe"
	// Slow hard-drives spinning up or network retrieved resources may cause timeouts if too aggressive.
	timeout = 60 * time.Second
)

var ErrNoAudioStream = errors.New("audio stream not found")

// Result contains the subset of ffprobe output needed to extract PCM.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

/*

  Bit depth reporting per codec:

  FLAC          bits_per_raw_sample, bits_per_sample often 0
  ALAC          bits_per_raw_sample usually
  WAV/AIFF      bits_per_sample
  MP3/AAC/Opus  neither, lossy has no bit depth

*/

// Stream is one elementary stream of the container.
type Stream struct {
	Index            int    `json:"index"`
	CodecName        string `json:"codec_name"`                    // flac
	CodecType        string `json:"codec_type"`                    // audio
	SampleRate       string `json:"sample_rate,omitempty"`         // 44100
	Channels         int    `json:"channels,omitempty"`            // 2
	Duration         string `json:"duration,omitempty"`            // 310.666667
	BitsPerRawSample string `json:"bits_per_raw_sample,omitempty"` // see above
	BitsPerSample    int    `json:"bits_per_sample,omitempty"`     // see above
}

// Format is container-level information.
type Format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"` // e.g. "flac", "mov,mp4,m4a,3gp,3g2,mj2"
	Duration   string `json:"duration,omitempty"`
}

// AudioStream returns the streamIndex-th audio stream (0-based, counting audio streams only).
func (r *Result) AudioStream(streamIndex int) (*Stream, error) {
	audioCount := 0

	for i := range r.Streams {
		if r.Streams[i].CodecType == "audio" {
			if audioCount == streamIndex {
				return &r.Streams[i], nil
			}

			audioCount++
		}
	}

	return nil, fmt.Errorf("%w: index %d (file has %d audio streams)", ErrNoAudioStream, streamIndex, audioCount)
}

// PCMFormat returns the format to extract the stream at, keeping its native bit depth when known.
func (s *Stream) PCMFormat() (types.PCMFormat, error) {
	sampleRate, err := strconv.Atoi(s.SampleRate)
	if err != nil || sampleRate <= 0 {
		return types.PCMFormat{}, fmt.Errorf("invalid sample rate from probe: %q", s.SampleRate)
	}

	if s.Channels <= 0 {
		return types.PCMFormat{}, fmt.Errorf("invalid channel count from probe: %d", s.Channels)
	}

	return types.PCMFormat{
		SampleRate: sampleRate,
		BitDepth:   s.bitDepth(),
		Channels:   uint(s.Channels), //nolint:gosec // validated positive value
	}, nil
}

// bitDepth prefers bits_per_raw_sample (lossless codecs), then bits_per_sample (PCM containers).
// Lossy streams fall back to 32 bits.
func (s *Stream) bitDepth() types.BitDepth {
	candidates := []int{s.BitsPerSample}
	if raw, err := strconv.Atoi(s.BitsPerRawSample); err == nil {
		candidates = append([]int{raw}, candidates...)
	}

	for _, bits := range candidates {
		switch bits {
		case 16:
			return types.Depth16
		case 24:
			return types.Depth24
		case 32:
			return types.Depth32
		}
	}

	return types.Depth32
}

// Probe runs ffprobe on the given file path and returns parsed metadata.
// It requires ffprobe to be available in the system PATH.
func Probe(ctx context.Context, filePath string) (*Result, error) {
	slog.Debug("ffprobe.Probe", "file path", filePath)

	ffprobePath, err := binary.Resolve(name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // filePath is intentionally user-provided input for probing media files
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	var result Result
	if err = json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &result, nil
}
