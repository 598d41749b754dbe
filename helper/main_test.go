package helper

import (
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	// Wrapped-call warnings are expected in these tests.
	// Set DEBUG_TESTS=1 to see them: DEBUG_TESTS=1 go test ./helper/... -v
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetOutput(io.Discard)
	}
	os.Exit(m.Run())
}
