package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/shelter/internal/report"
)

// ReportOptions holds flags for the report commands.
type ReportOptions struct {
	*RootOptions
	OutDir     string
	FileFormat string
	NoFile     bool
}

// reportResult is the JSON payload of the report commands.
type reportResult struct {
	Report interface{} `json:"report"`
	File   string      `json:"file,omitempty"`
}

// NewReportCommand creates the report command group.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate monthly and system reports",
	}
	cmd.PersistentFlags().StringVar(&opts.OutDir, "out", "", "directory report files are written to (default reports.dir)")
	cmd.PersistentFlags().BoolVar(&opts.NoFile, "no-file", false, "print the report without writing a file")

	monthly := &cobra.Command{
		Use:   "monthly [YYYY-MM]",
		Short: "Report on one month (default the current month)",
		Long: `Print the monthly report and save it as CSV, or as an Excel workbook
with --file-format xlsx.

The report counts residents who entered during the month, services by type,
and the residents who received the most services.

Example:
  shelter report monthly
  shelter report monthly 2025-11 --file-format xlsx --out ./reports`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			month := ""
			if len(args) == 1 {
				month = args[0]
			}
			return runReportMonthly(opts, month, cmd)
		},
	}
	monthly.Flags().StringVar(&opts.FileFormat, "file-format", string(report.FormatCSV), "report file format: csv or xlsx")

	system := &cobra.Command{
		Use:           "system",
		Short:         "Report on all records",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReportSystem(opts, cmd)
		},
	}

	cmd.AddCommand(monthly, system)
	return cmd
}

func runReportMonthly(opts *ReportOptions, month string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	format, err := report.ParseFormat(opts.FileFormat)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --file-format", err)
	}

	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.reports.Monthly(cmd.Context(), month)
	if err != nil {
		return formatter.Fail(err)
	}

	result := reportResult{Report: r}
	if !opts.NoFile {
		path, err := report.Writer{Dir: a.cfg.ReportsDir}.SaveMonthly(r, format)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to save report", err)
		}
		a.logger.Info("monthly report saved", "path", path)
		result.File = path
	}

	return formatter.Success(result, func(w io.Writer) {
		_ = report.RenderMonthly(w, r)
		if result.File != "" {
			fmt.Fprintf(w, "\nReport saved to %s\n", result.File)
		}
	})
}

func runReportSystem(opts *ReportOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.reports.System(cmd.Context())
	if err != nil {
		return formatter.Fail(err)
	}

	result := reportResult{Report: r}
	if !opts.NoFile {
		path, err := report.Writer{Dir: a.cfg.ReportsDir}.SaveSystem(r)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to save report", err)
		}
		a.logger.Info("system report saved", "path", path)
		result.File = path
	}

	return formatter.Success(result, func(w io.Writer) {
		_ = report.RenderSystem(w, r)
		if result.File != "" {
			fmt.Fprintf(w, "\nReport saved to %s\n", result.File)
		}
	})
}
