package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/tessitura/internal/integration/binary"
	"github.com/farcloser/tessitura/internal/types"
)

// ExtractStream decodes audio stream streamIndex of the container read from input, writing
// interleaved little-endian PCM at format's bit depth to output. Sample rate and channel
// layout are left untouched.
func ExtractStream(
	ctx context.Context,
	input io.Reader,
	output io.Writer,
	streamIndex int,
	format *types.PCMFormat,
) error {
	slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "bit depth", format.BitDepth, "stage", "start")

	ffmpegPath, err := binary.Resolve(name)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	spec, codec := sampleFormat(format.BitDepth)

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-i", "-",
		"-map", "0:a:"+strconv.Itoa(streamIndex),
		"-f", spec,
		"-acodec", codec,
		"-v", "quiet",
		"-",
	)

	cmd.Stdout = output
	cmd.Stdin = input

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err = cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "timeout")

			return fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "error")

		return fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "done")

	return nil
}
