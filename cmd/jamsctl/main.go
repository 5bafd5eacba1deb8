// Command jamsctl is an operator-facing companion to jamsd (spec.md §5.7):
// poll-now drives one manual store reconciliation in-process, and the
// models/predict/add-model/update-model/delete-model subcommands are a
// thin HTTP client against a running jamsd instance, grounded on
// original_source/clients/go/jams/http/client.go's baseURL-plus-net/http
// shape.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
