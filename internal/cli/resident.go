package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/shelter/internal/directory"
	"github.com/roach88/shelter/internal/model"
)

// ResidentOptions holds flags for the resident commands.
type ResidentOptions struct {
	*RootOptions
	EntryDate string
	Order     string
	Limit     int
}

// NewResidentCommand creates the resident command group.
func NewResidentCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResidentOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resident",
		Short: "Add, list and search residents",
	}

	add := &cobra.Command{
		Use:   "add <first-name> <last-name>",
		Short: "Add a resident",
		Long: `Add a resident to the directory.

The entry date defaults to today. A resident whose name matches an existing
record, ignoring case and surrounding spaces, is rejected as a duplicate.

Example:
  shelter resident add Maria Garcia
  shelter resident add Maria Garcia --entry-date 2025-11-20`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResidentAdd(opts, args[0], args[1], cmd)
		},
	}
	add.Flags().StringVar(&opts.EntryDate, "entry-date", "", "entry date YYYY-MM-DD (default today)")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List residents",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResidentList(opts, cmd)
		},
	}
	list.Flags().StringVar(&opts.Order, "order", "id", "sort order (id|entry)")
	list.Flags().IntVar(&opts.Limit, "limit", 0, "maximum residents to list (0 lists all)")

	search := &cobra.Command{
		Use:   "search <term>...",
		Short: "Search residents by name",
		Long: `Search residents whose first name, last name or full name contains the term,
ignoring case. Multiple arguments are joined with spaces.

Example:
  shelter resident search garcia
  shelter resident search maria garcia`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResidentSearch(opts, strings.Join(args, " "), cmd)
		},
	}

	check := &cobra.Command{
		Use:           "check <first-name> <last-name>",
		Short:         "Check whether a resident is already on record",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResidentCheck(opts, args[0], args[1], cmd)
		},
	}

	show := &cobra.Command{
		Use:           "show <id>",
		Short:         "Show a resident and their services",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResidentShow(opts, args[0], cmd)
		},
	}

	cmd.AddCommand(add, list, search, check, show)
	return cmd
}

func runResidentAdd(opts *ResidentOptions, first, last string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.directory.Add(cmd.Context(), first, last, opts.EntryDate)
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(r, func(w io.Writer) {
		fmt.Fprintf(w, "Added resident #%d: %s (entry %s)\n", r.ID, r.FullName(), r.EntryDate)
	})
}

func runResidentList(opts *ResidentOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	order, err := directory.ParseOrder(opts.Order)
	if err != nil {
		return formatter.Fail(err)
	}
	if opts.Limit < 0 {
		return formatter.Fail(model.NewValidationError("limit", "must not be negative"))
	}

	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	residents, err := a.directory.ListAll(cmd.Context(), directory.ListOptions{Order: order, Limit: opts.Limit})
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(residents, func(w io.Writer) {
		if len(residents) == 0 {
			fmt.Fprintln(w, "No residents on record")
			return
		}
		printResidents(w, residents)
	})
}

func runResidentSearch(opts *ResidentOptions, term string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	residents, err := a.directory.Search(cmd.Context(), term)
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(residents, func(w io.Writer) {
		if len(residents) == 0 {
			fmt.Fprintf(w, "No residents match %q\n", strings.TrimSpace(term))
			return
		}
		printResidents(w, residents)
	})
}

// duplicateCheck is the JSON payload of resident check.
type duplicateCheck struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Duplicate bool   `json:"duplicate"`
}

func runResidentCheck(opts *ResidentOptions, first, last string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	dup, err := a.directory.IsDuplicate(cmd.Context(), first, last)
	if err != nil {
		return formatter.Fail(err)
	}

	result := duplicateCheck{
		FirstName: strings.TrimSpace(first),
		LastName:  strings.TrimSpace(last),
		Duplicate: dup,
	}
	return formatter.Success(result, func(w io.Writer) {
		name := result.FirstName + " " + result.LastName
		if dup {
			fmt.Fprintf(w, "%s is already on record\n", name)
		} else {
			fmt.Fprintf(w, "%s is not on record\n", name)
		}
	})
}

// residentDetail is the JSON payload of resident show.
type residentDetail struct {
	model.Resident
	Services []model.Service `json:"services"`
}

func runResidentShow(opts *ResidentOptions, rawID string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	id, err := parseID(rawID)
	if err != nil {
		return formatter.Fail(err)
	}

	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.directory.Get(cmd.Context(), id)
	if err != nil {
		return formatter.Fail(err)
	}
	services, err := a.ledger.ListForResident(cmd.Context(), id)
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(residentDetail{Resident: r, Services: services}, func(w io.Writer) {
		fmt.Fprintf(w, "Resident #%d: %s\n", r.ID, r.FullName())
		fmt.Fprintf(w, "Entry date: %s\n", r.EntryDate)
		if len(services) == 0 {
			fmt.Fprintln(w, "No services recorded")
			return
		}
		fmt.Fprintln(w)
		printServices(w, services)
	})
}

// parseID converts a resident id argument.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError("id", "must be a positive whole number")
	}
	return id, nil
}
