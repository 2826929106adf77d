package tests_test

import (
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/expect"
	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/agar/pkg/agar"

	"github.com/farcloser/tessitura/internal/output"
	"github.com/farcloser/tessitura/tests/testutils"
)

func TestProcessCLI(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "no file name on stdin fails",
			Command:     test.Command(),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "nonexistent file fails",
			Command:     test.Command("/nonexistent/path/file.flac"),
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeGenericFail,
					Output:   expectNoFiles(output.Paths("/nonexistent/path/file.flac")...),
				}
			},
		},
		{
			Description: "invalid tuning fails",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.Genuine16bit44k(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("--tuning", "meantone", data.Labels().Get("file"))
			},
			Expected: func(data test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeGenericFail,
					Output:   expectNoFiles(output.Paths(data.Labels().Get("file"))...),
				}
			},
		},
		{
			Description: "16-bit file writes the three result files",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.Genuine16bit44k(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(data.Labels().Get("file"))
			},
			Expected: func(data test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("scientific:"),
						expectContains("spectrogram:"),
						expectFiles(output.Paths(data.Labels().Get("file"))...),
					),
				}
			},
		},
		{
			Description: "24-bit file with json report and debug frames",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.Genuine24bit96k(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("--format", "json", "--debug", data.Labels().Get("file"))
			},
			Expected: func(data test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains(`"frames"`),
						expectContains(`"sample_rate"`),
						expectFiles(output.Paths(data.Labels().Get("file"))...),
					),
				}
			},
		},
		{
			Description: "output prefix redirects the result files",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.Genuine16bit44k(data, helpers))
				data.Labels().Set("prefix", data.Labels().Get("file")+".baroque")
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(
					"--tuning", "baroque",
					"--frame-size", "4096",
					"--output", data.Labels().Get("prefix"),
					data.Labels().Get("file"),
				)
			},
			Expected: func(data test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectFiles(output.Paths(data.Labels().Get("prefix"))...),
				}
			},
		},
	}

	testCase.Run(t)
}

func TestAnalyzeCLI(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "analyze without arguments fails",
			Command:     test.Command("analyze", "--sample-rate", "44100"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "analyze without sample rate fails",
			Command:     test.Command("analyze", "/nonexistent/raw.pcm"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "analyze rejects 8-bit samples",
			Command:     test.Command("analyze", "--sample-rate", "44100", "--bit-depth", "8", "/nonexistent/raw.pcm"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
	}

	testCase.Run(t)
}
