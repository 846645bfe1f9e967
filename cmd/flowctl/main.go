// Command flowctl is a terminal dashboard for workflows: it lists, searches,
// and mutates the signed-in owner's workflows through the HTTP API.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
