// Package binary locates the external decoders used for containers go-audio cannot read.
package binary

import (
	"fmt"
	"os/exec"

	"github.com/farcloser/primordium/fault"
)

// Resolve returns the absolute path of binName from PATH.
func Resolve(binName string) (string, error) {
	path, err := exec.LookPath(binName)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found in PATH (install ffmpeg to read non-WAV files)",
			fault.ErrMissingRequirements, binName)
	}

	return path, nil
}
