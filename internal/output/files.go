package output

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/farcloser/tessitura"
)

const (
	SpectrogramSuffix = "_spectrogram_values.csv"
	PianoSuffix       = "_piano.csv"
	ScientificSuffix  = "_scientific.txt"
)

var ErrWriteFailure = errors.New("write failure")

// Paths returns the three output files derived from prefix, in write order.
func Paths(prefix string) []string {
	return []string{
		prefix + SpectrogramSuffix,
		prefix + PianoSuffix,
		prefix + ScientificSuffix,
	}
}

// WriteFiles renders the spectrogram, piano keys and scientific names, then writes them next to
// prefix. All three are staged as temporary files before any of them replaces a previous result,
// so a rendering or staging failure leaves earlier results untouched.
func WriteFiles(prefix string, result *tessitura.Result) ([]string, error) {
	spec, err := renderSpectrogram(result)
	if err != nil {
		return nil, err
	}

	contents := [][]byte{spec, renderPiano(result), renderScientific(result)}
	paths := Paths(prefix)
	staged := make([]string, 0, len(paths))

	discard := func() {
		for _, tmpName := range staged {
			_ = os.Remove(tmpName)
		}
	}

	for i, path := range paths {
		tmpName, stageErr := stage(path, contents[i])
		if stageErr != nil {
			discard()

			return nil, stageErr
		}

		staged = append(staged, tmpName)
	}

	for i, path := range paths {
		if err = os.Rename(staged[i], path); err != nil {
			staged = staged[i:]
			discard()

			return paths[:i], fmt.Errorf("%w: %s: %w", ErrWriteFailure, path, err)
		}

		slog.Debug("output.WriteFiles", "path", path, "bytes", len(contents[i]))
	}

	return paths, nil
}

// FormatValue renders a float in exponent notation with 18 fractional digits, infinities as
// "inf" / "-inf".
func FormatValue(v float64) string {
	switch {
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsNaN(v):
		return "nan"
	}

	return strconv.FormatFloat(v, 'e', 18, 64)
}

func renderSpectrogram(result *tessitura.Result) ([]byte, error) {
	var buf bytes.Buffer

	spec := result.Spectrogram
	writer := csv.NewWriter(&buf)
	record := make([]string, spec.Bins())

	for i := range spec.Frames() {
		for j, v := range spec.Row(i) {
			record[j] = FormatValue(v)
		}

		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}

	return buf.Bytes(), nil
}

func renderPiano(result *tessitura.Result) []byte {
	var buf bytes.Buffer

	for _, key := range result.PianoKeys() {
		buf.WriteString(FormatValue(key))
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

func renderScientific(result *tessitura.Result) []byte {
	return []byte(strings.Join(result.ScientificNames(), " ") + "\n")
}

// stage writes data to a temporary file next to path and returns its name. It refuses a
// destination that exists and is not a regular file, since the rename would fail.
func stage(path string, data []byte) (string, error) {
	if info, err := os.Lstat(path); err == nil && !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s: not a regular file", ErrWriteFailure, path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}

	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return "", fmt.Errorf("%w: %s: %w", ErrWriteFailure, path, err)
	}

	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return "", fmt.Errorf("%w: %s: %w", ErrWriteFailure, path, err)
	}

	//nolint:gosec // output files are meant to be readable
	if err = os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)

		return "", fmt.Errorf("%w: %s: %w", ErrWriteFailure, path, err)
	}

	return tmpName, nil
}
