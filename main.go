// main is the entry point for the gitpet CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/gitpet/cmd"
	"github.com/huangsam/gitpet/internal/iocache"
)

func main() {
	code := run()
	os.Exit(code)
}

// run executes the root command and releases the store before exit.
func run() int {
	defer iocache.CloseStores()
	defer cmd.SyncLogger()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		return 1
	}
	return 0
}
