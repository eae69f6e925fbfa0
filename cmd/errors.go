package cmd

import (
	"fmt"
	"os"

	"cjdkgo/internal/cjdkerr"
	"cjdkgo/internal/logging"
)

// ExitWithError logs err and exits with the code spec.md §6 assigns to its
// kind, reconstructed here since the teacher's own ExitWithError (referenced
// from cmd/root.go/cmd/use.go/cmd/clean.go) was not present in the pack.
func ExitWithError(err error) {
	if err == nil {
		return
	}
	logging.LogError("❌ %v", err)
	fmt.Fprintln(os.Stderr, err)
	os.Exit(cjdkerr.ExitCode(err))
}
