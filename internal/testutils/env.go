package testutils

import "os"

// HasTypst returns true if tests may run the real typst binary. Set
// TYPSTIFY_TEST_TYPST to the binary path to enable them.
func HasTypst() (string, bool) {
	bin := os.Getenv("TYPSTIFY_TEST_TYPST")
	return bin, bin != ""
}
