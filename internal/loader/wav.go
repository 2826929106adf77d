package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/farcloser/primordium/fault"
	"github.com/go-audio/wav"

	"github.com/farcloser/tessitura/internal/types"
)

const wavFormatPCM = 1

var errNotPCM = errors.New("WAV payload is not integer PCM")

func decodeWAV(file io.ReadSeeker, normalize bool) (*types.SampleBuffer, error) {
	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid WAV file", fault.ErrReadFailure)
	}

	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, errNotPCM
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	numChannels := buf.Format.NumChannels
	if numChannels <= 0 || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: invalid WAV header (%d channels, %d Hz)",
			fault.ErrReadFailure, numChannels, buf.Format.SampleRate)
	}

	bitDepth := types.BitDepth(buf.SourceBitDepth) //nolint:gosec // small constant

	scale := 1.0
	if normalize {
		scale = bitDepth.FullScale()
	}

	samples := make([]float64, len(buf.Data)/numChannels)
	for i := range samples {
		var sum float64
		for ch := range numChannels {
			sum += float64(buf.Data[i*numChannels+ch])
		}

		samples[i] = sum / scale
	}

	return &types.SampleBuffer{
		SampleRate: buf.Format.SampleRate,
		Samples:    samples,
		Channels:   numChannels,
		BitDepth:   bitDepth,
	}, nil
}
