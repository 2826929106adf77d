package ffmpeg

import (
	"strconv"
	"time"

	"github.com/farcloser/tessitura/internal/types"
)

const (
	name = "ffmpeg"
	// Decoding a long lossless file to PCM can take a while on slow machines.
	timeout = 5 * time.Minute
)

// sampleFormat maps a bit depth to ffmpeg's raw format and codec names (s16le / pcm_s16le).
func sampleFormat(bitDepth types.BitDepth) (string, string) {
	//nolint:gosec // bit depth is a small constant
	spec := "s" + strconv.Itoa(int(bitDepth)) + "le"

	return spec, "pcm_" + spec
}
