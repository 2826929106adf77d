// Package loader reads an audio file into a single summed channel of samples.
//
// WAV files are decoded natively. Any other container is probed with ffprobe and decoded to
// PCM with ffmpeg, which must then be available in PATH.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/tessitura/internal/integration/ffmpeg"
	"github.com/farcloser/tessitura/internal/integration/ffprobe"
	"github.com/farcloser/tessitura/internal/pcm"
	"github.com/farcloser/tessitura/internal/types"
)

var ErrEmptyPath = errors.New("no audio file given")

// Options configures loading.
type Options struct {
	// StreamIndex selects the audio stream of multi-stream containers (0-based). Ignored for WAV.
	StreamIndex int
	// Normalize scales samples to [-1, 1) per channel before summing. Off keeps integer amplitudes.
	Normalize bool
}

// Load decodes the file at path.
func Load(ctx context.Context, path string, opts Options) (*types.SampleBuffer, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	isWAV, err := sniffWAV(file)
	if err != nil {
		return nil, err
	}

	if isWAV {
		buf, err := decodeWAV(file, opts.Normalize)
		if !errors.Is(err, errNotPCM) {
			return buf, err
		}

		slog.Debug("loader.Load", "file path", path, "stage", "non-PCM WAV, falling back to ffmpeg")

		if _, err = file.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}
	}

	return decodeContainer(ctx, path, file, opts)
}

// sniffWAV checks for a RIFF/WAVE header and rewinds.
func sniffWAV(file io.ReadSeeker) (bool, error) {
	header := make([]byte, 12)

	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	if _, err = file.Seek(0, io.SeekStart); err != nil {
		return false, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	return n == len(header) && string(header[0:4]) == "RIFF" && string(header[8:12]) == "WAVE", nil
}

func decodeContainer(ctx context.Context, path string, input io.Reader, opts Options) (*types.SampleBuffer, error) {
	probe, err := ffprobe.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("probing file: %w", err)
	}

	stream, err := probe.AudioStream(opts.StreamIndex)
	if err != nil {
		return nil, err
	}

	format, err := stream.PCMFormat()
	if err != nil {
		return nil, err
	}

	slog.Debug("loader.decodeContainer",
		"file path", path,
		"codec", stream.CodecName,
		"sample rate", format.SampleRate,
		"channels", format.Channels,
		"bit depth", format.BitDepth,
	)

	var pcmBuf bytes.Buffer

	if err = ffmpeg.ExtractStream(ctx, input, &pcmBuf, opts.StreamIndex, &format); err != nil {
		return nil, fmt.Errorf("extracting PCM: %w", err)
	}

	return pcm.Decode(&pcmBuf, format, opts.Normalize)
}
