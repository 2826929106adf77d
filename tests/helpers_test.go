package tests_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectFiles returns a comparator verifying that every path exists and is not empty.
func expectFiles(paths ...string) test.Comparator {
	return func(_ string, testing tig.T) {
		testing.Helper()

		for _, path := range paths {
			info, err := os.Stat(path)
			if err != nil {
				testing.Log(fmt.Sprintf("expected result file %s: %v", path, err))
				testing.Fail()

				continue
			}

			if info.Size() == 0 {
				testing.Log(fmt.Sprintf("result file %s is empty", path))
				testing.Fail()
			}
		}
	}
}

// expectNoFiles returns a comparator verifying that none of the paths exist.
func expectNoFiles(paths ...string) test.Comparator {
	return func(_ string, testing tig.T) {
		testing.Helper()

		for _, path := range paths {
			if _, err := os.Stat(path); err == nil {
				testing.Log(fmt.Sprintf("unexpected result file %s", path))
				testing.Fail()
			}
		}
	}
}
