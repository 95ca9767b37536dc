package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/shelter/internal/ledger"
	"github.com/roach88/shelter/internal/model"
)

// ServiceOptions holds flags for the service commands.
type ServiceOptions struct {
	*RootOptions
	Date     string
	Resident string
	Limit    int
}

// NewServiceCommand creates the service command group.
func NewServiceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServiceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "service",
		Short: "Log and list services provided to residents",
	}

	logCmd := &cobra.Command{
		Use:   "log <resident-id> <service-type>...",
		Short: "Log a service for a resident",
		Long: `Record that a resident received a service.

The service type is free text; multiple arguments are joined with spaces.
The date defaults to today.

Example:
  shelter service log 1 Counseling
  shelter service log 1 Legal Aid --date 2025-12-01`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServiceLog(opts, args[0], strings.Join(args[1:], " "), cmd)
		},
	}
	logCmd.Flags().StringVar(&opts.Date, "date", "", "service date YYYY-MM-DD (default today)")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List services, most recent first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServiceList(opts, cmd)
		},
	}
	list.Flags().StringVar(&opts.Resident, "resident", "", "only list services of this resident id")
	list.Flags().IntVar(&opts.Limit, "limit", 0, "maximum services to list (0 lists all)")

	cmd.AddCommand(logCmd, list)
	return cmd
}

func runServiceLog(opts *ServiceOptions, rawID, serviceType string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	residentID, err := ledger.ParseResidentID(rawID)
	if err != nil {
		return formatter.Fail(err)
	}

	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	sv, err := a.ledger.LogService(cmd.Context(), residentID, serviceType, opts.Date)
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(sv, func(w io.Writer) {
		fmt.Fprintf(w, "Logged %s for resident #%d on %s (service #%d)\n",
			sv.ServiceType, sv.ResidentID, sv.ServiceDate, sv.ID)
	})
}

func runServiceList(opts *ServiceOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	if opts.Limit < 0 {
		return formatter.Fail(model.NewValidationError("limit", "must not be negative"))
	}

	var residentID int64
	if opts.Resident != "" {
		id, err := ledger.ParseResidentID(opts.Resident)
		if err != nil {
			return formatter.Fail(err)
		}
		residentID = id
	}

	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if residentID > 0 {
		services, err := a.ledger.ListForResident(cmd.Context(), residentID)
		if err != nil {
			return formatter.Fail(err)
		}
		if opts.Limit > 0 && len(services) > opts.Limit {
			services = services[:opts.Limit]
		}
		return formatter.Success(services, func(w io.Writer) {
			if len(services) == 0 {
				fmt.Fprintf(w, "No services recorded for resident #%d\n", residentID)
				return
			}
			printServices(w, services)
		})
	}

	entries, err := a.ledger.ListAll(cmd.Context(), opts.Limit)
	if err != nil {
		return formatter.Fail(err)
	}
	return formatter.Success(entries, func(w io.Writer) {
		if len(entries) == 0 {
			fmt.Fprintln(w, "No services recorded")
			return
		}
		printServiceEntries(w, entries)
	})
}
