package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/trxmining/api-contract-tests/framework"
)

var (
	errTestsFailed = errors.New("some tests failed")
	errInterrupted = errors.New("test run was interrupted")
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errTestsFailed) {
			fmt.Fprintf(stderr, "Error: %s\n", err)
		}
		return 1
	}
	return 0
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	params := &commandParams{}
	root := &cobra.Command{
		Use:           "trx-contract-tests",
		Short:         "Contract tests for the TRX mining platform API",
		Long:          "Sends a fixed suite of requests to the mining platform API and checks every response against its contract",
		Version:       framework.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	params.registerConfigFlags(root.PersistentFlags())

	root.AddCommand(
		newRunCommand(params),
		newListCommand(params),
		newFailuresCommand(params),
		newFakeBackendCommand(),
	)
	return root
}
