// Package pcm decodes interleaved signed little-endian PCM into a single summed channel.
package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/tessitura/internal/types"
)

var (
	ErrUnsupportedBitDepth = errors.New("bit depth must be 16, 24, or 32")
	ErrInvalidFormat       = errors.New("invalid PCM format")
)

// Decode reads reader to EOF and sums the channels of every frame into one sample.
// With normalize, samples are divided by the full scale of the bit depth; otherwise they keep
// their integer amplitude. A trailing incomplete frame is dropped.
func Decode(reader io.Reader, format types.PCMFormat, normalize bool) (*types.SampleBuffer, error) {
	if format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, format.SampleRate)
	}

	if format.Channels == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidFormat)
	}

	switch format.BitDepth {
	case types.Depth16, types.Depth24, types.Depth32:
	default:
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedBitDepth, format.BitDepth)
	}

	bytesPerSample := int(format.BitDepth / 8)         //nolint:gosec // bit depth is a small constant
	numChannels := int(format.Channels)                //nolint:gosec // channel count is small
	frameSize := bytesPerSample * numChannels
	buf := make([]byte, frameSize*4096)

	scale := 1.0
	if normalize {
		scale = format.BitDepth.FullScale()
	}

	var samples []float64

	pending := 0

	for {
		n, err := reader.Read(buf[pending:])
		n += pending

		completeFrames := (n / frameSize) * frameSize
		data := buf[:completeFrames]

		switch format.BitDepth {
		case types.Depth16:
			for i := 0; i < len(data); i += frameSize {
				var sum float64
				for ch := range numChannels {
					sum += float64(int16(binary.LittleEndian.Uint16(data[i+ch*2:]))) //nolint:gosec // two's complement conversion for signed PCM samples
				}

				samples = append(samples, sum/scale)
			}
		case types.Depth24:
			for i := 0; i < len(data); i += frameSize {
				var sum float64
				for ch := range numChannels {
					offset := i + ch*3

					raw := int32(data[offset]) | int32(data[offset+1])<<8 | int32(data[offset+2])<<16
					if raw&0x800000 != 0 {
						raw |= ^0xFFFFFF
					}

					sum += float64(raw)
				}

				samples = append(samples, sum/scale)
			}
		case types.Depth32:
			for i := 0; i < len(data); i += frameSize {
				var sum float64
				for ch := range numChannels {
					sum += float64(int32(binary.LittleEndian.Uint32(data[i+ch*4:]))) //nolint:gosec // two's complement conversion for signed PCM samples
				}

				samples = append(samples, sum/scale)
			}
		default:
		}

		pending = copy(buf, buf[completeFrames:n])

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}
	}

	if pending > 0 {
		slog.Debug("pcm.Decode", "dropped trailing bytes", pending)
	}

	return &types.SampleBuffer{
		SampleRate: format.SampleRate,
		Samples:    samples,
		Channels:   numChannels,
		BitDepth:   format.BitDepth,
	}, nil
}
