package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wexeljose/perfgate/internal/analyzer"
	"github.com/wexeljose/perfgate/internal/config"
	"github.com/wexeljose/perfgate/internal/output"
	"github.com/wexeljose/perfgate/internal/sample"
	"github.com/wexeljose/perfgate/internal/threshold"
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a load test result file and classify the run",
		RunE:  runAnalyze,
	}
	config.RegisterAnalyzeFlags(cmd.Flags())
	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadAnalyze(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	set, err := sample.ReadFile(cfg.Input, sample.Format(cfg.Format))
	if err != nil {
		return err
	}

	report, err := analyzer.Analyze(set, cfg.Bands)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", cfg.Input, err)
	}

	if cfg.JSONOutput {
		if err := output.PrintJSONReport(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		output.PrintReport(cmd.OutOrStdout(), report)
	}

	if cfg.HTMLOutput != "" {
		err := output.WriteReportFile(cfg.HTMLOutput, func(w io.Writer) error {
			return output.GenerateHTMLReport(w, report)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "HTML report written to %s\n", cfg.HTMLOutput)
	}

	return gate(report.Verdict, cfg.FailOn)
}

// gate maps the verdict onto the process exit status so CI pipelines can
// block on it.
func gate(verdict threshold.Verdict, failOn config.FailOn) error {
	switch failOn {
	case config.FailOnNever:
		return nil
	case config.FailOnUnstable:
		if verdict != threshold.VerdictPass {
			return fmt.Errorf("performance gate not met: verdict %s", verdict)
		}
	default:
		if verdict == threshold.VerdictFail {
			return fmt.Errorf("performance gate not met: verdict %s", verdict)
		}
	}
	return nil
}
