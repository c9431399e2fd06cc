package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/trxmining/api-contract-tests/apitests"
	"github.com/trxmining/api-contract-tests/config"
	"github.com/trxmining/api-contract-tests/fakeapi"
	"github.com/trxmining/api-contract-tests/framework"
	"github.com/trxmining/api-contract-tests/report"
	"github.com/trxmining/api-contract-tests/servicedef"
)

const defaultFakeBackendAddr = ":3000"

func newRunCommand(params *commandParams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the contract test suite",
		Long:  "Run every contract test against the configured API, print a report, and save the result log",
		Args:  cobra.NoArgs,
		RunE:  params.runSuite,
	}
	params.registerRunFlags(cmd.Flags())
	return cmd
}

func newListCommand(params *commandParams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tests the suite would run",
		Args:  cobra.NoArgs,
		RunE:  params.listTests,
	}
	params.registerFilterFlags(cmd.Flags())
	return cmd
}

func newFailuresCommand(params *commandParams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "failures",
		Short: "View the failures of the last saved run",
		Long:  "Display the failed tests of the last saved run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return params.showFailures(cmd, report.NewFailureViewer())
		},
	}
	cmd.Flags().BoolVar(&params.plain, "plain", false, "print the failures instead of opening the viewer")
	return cmd
}

func newFakeBackendCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "fake-backend",
		Short: "Serve an in-memory implementation of the API",
		Long:  "Serve an in-memory implementation of the API, for trying out the suite without the real platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			out := cmd.OutOrStdout()
			server := fakeapi.New(log.New(out, "[fake-backend] ", log.LstdFlags))
			fmt.Fprintf(out, "Fake API listening on %s (routes under %s)\n", addr, fakeapi.APIPrefix)
			return fakeapi.Serve(ctx, addr, server)
		},
	}
	cmd.Flags().StringVar(&addr, "listen", defaultFakeBackendAddr, "address to listen on")
	return cmd
}

func (p *commandParams) runSuite(cmd *cobra.Command, args []string) error {
	cfg, err := p.loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiURL := cfg.APIBaseURL()
	if p.wait > 0 {
		if err := framework.WaitForService(ctx, apiURL+servicedef.PathNodes, p.wait, out); err != nil {
			return fmt.Errorf("API at %s is not available: %w", apiURL, err)
		}
	}

	mainDebugLogger := framework.NullLogger()
	if p.debugAll {
		mainDebugLogger = log.New(out, "", log.LstdFlags)
	}
	executor := framework.NewExecutor(apiURL, cfg.Timeouts.Default, framework.WithDebugLogger(mainDebugLogger))
	suiteParams := apitests.Params{Timeouts: cfg.Timeouts}

	fmt.Fprintf(out, "Testing API at %s\n\n", apiURL)
	p.filters.Describe(out)

	var testLogger framework.TestLogger = &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: p.debug || p.debugAll,
		DebugOutputOnSuccess: p.debugAll,
	}
	var progress *report.ProgressLogger
	if p.progress {
		counter := &report.TestCounter{}
		apitests.RunTestSuite(ctx, executor, suiteParams,
			framework.RunOptions{Filter: p.filters.AsFilter, TestLogger: counter, DryRun: true})
		progress = report.NewProgressLogger(counter.Count, cmd.ErrOrStderr())
		testLogger = progress
	}

	startedAt := time.Now()
	results := apitests.RunTestSuite(ctx, executor, suiteParams,
		framework.RunOptions{Filter: p.filters.AsFilter, TestLogger: testLogger})
	if progress != nil {
		progress.Finish()
	}
	interrupted := ctx.Err() != nil
	record := report.NewRunRecord(results, apiURL, startedAt, time.Since(startedAt), interrupted)

	fmt.Fprintln(out)
	if interrupted {
		fmt.Fprintln(out, "Run interrupted; reporting the tests that completed.")
	}
	fmt.Fprint(out, results.Render())
	report.PrintSummaryTable(out, record.Meta)

	saveRecord(cfg, record, out, cmd.ErrOrStderr())

	switch {
	case interrupted:
		return errInterrupted
	case !results.OK():
		return errTestsFailed
	}
	return nil
}

// saveRecord persists the run wherever the configuration says. Failing to save is reported but
// does not change the outcome of the run.
func saveRecord(cfg *config.Config, record report.RunRecord, out, errOut io.Writer) {
	if cfg.ResultsFile != "" {
		storage := report.NewJSONStorage(cfg.ResultsFile)
		if err := storage.Save(record); err != nil {
			fmt.Fprintf(errOut, "Could not save results: %s\n", err)
		} else {
			fmt.Fprintf(out, "Results saved to %s\n", storage.Path())
		}
	}
	if cfg.ExcelFile != "" {
		if err := report.WriteExcel(cfg.ExcelFile, record); err != nil {
			fmt.Fprintf(errOut, "Could not write Excel report: %s\n", err)
		} else {
			fmt.Fprintf(out, "Excel report written to %s\n", cfg.ExcelFile)
		}
	}
}

func (p *commandParams) listTests(cmd *cobra.Command, args []string) error {
	cfg, err := p.loadConfig(cmd)
	if err != nil {
		return err
	}
	lister := &testLister{out: cmd.OutOrStdout()}
	apitests.RunTestSuite(context.Background(), framework.NewExecutor(cfg.APIBaseURL(), cfg.Timeouts.Default),
		apitests.Params{Timeouts: cfg.Timeouts},
		framework.RunOptions{Filter: p.filters.AsFilter, TestLogger: lister, DryRun: true})
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d test(s)\n", lister.count)
	return nil
}

func (p *commandParams) showFailures(cmd *cobra.Command, viewer report.Viewer) error {
	cfg, err := p.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.ResultsFile == "" {
		return errors.New("no results file is configured")
	}
	record, err := report.NewJSONStorage(cfg.ResultsFile).Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	summary := record.Summary()
	if summary.Failed == 0 {
		fmt.Fprintf(out, "No failures in the run of %s (%d test(s)).\n", record.Meta.StartedAt, summary.Total)
		return nil
	}
	if p.plain {
		framework.WriteReport(out, summary)
		return nil
	}
	return viewer.View(record)
}
