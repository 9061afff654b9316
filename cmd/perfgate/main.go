// Command perfgate measures and gates application performance: `serve` runs
// an instrumenting reverse proxy exposing Prometheus metrics, and `analyze`
// classifies a completed load test against pass/unstable/fail thresholds.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "perfgate",
		Short:         "Request instrumentation and performance-gate analysis",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(os.Stdout)
	root.AddCommand(newAnalyzeCommand())
	root.AddCommand(newServeCommand())
	return root
}
