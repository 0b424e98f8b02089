// Package guard flips the test-mode flag for packages importing it from
// tests, so binaries skip side effects like worker startup.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("VAREJO_TEST_MODE") == "" {
			_ = os.Setenv("VAREJO_TEST_MODE", "1")
		}
	})
}
