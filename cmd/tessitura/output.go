//nolint:wrapcheck
package main

import (
	"fmt"
	"os"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/tessitura"
	"github.com/farcloser/tessitura/internal/output"
	"github.com/farcloser/tessitura/internal/types"
)

// run analyzes buf, writes the result files and prints the report. Result files are only
// written once the whole analysis succeeded.
func run(cmd *cli.Command, source, defaultPrefix string, buf *types.SampleBuffer, opts tessitura.Options) error {
	formatter, err := format.GetFormatter(cmd.String("format"))
	if err != nil {
		return err
	}

	result, err := tessitura.Analyze(buf, opts)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	prefix := cmd.String("output")
	if prefix == "" {
		prefix = defaultPrefix
	}

	written, err := output.WriteFiles(prefix, result)
	if err != nil {
		return err
	}

	meta := output.ResultToMap(result, cmd.Bool("debug"))
	meta["channels"] = buf.Channels
	files := make([]any, 0, len(written))
	for _, path := range written {
		files = append(files, path)
	}

	meta["files"] = files

	data := &format.Data{
		Object: source,
		Meta:   meta,
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}
