package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/shelter/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load residents and services from a YAML fixture",
		Long: `Load residents and their services from a YAML fixture.

Residents already on record are skipped together with their services, so
seeding the same file twice adds nothing the second time.

Example:
  shelter seed ./fixtures/shelter.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runSeed(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	fx, err := seed.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load seed file", err)
	}
	formatter.VerboseLog("Loaded %d resident(s) from %s", len(fx.Residents), path)

	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	sum, err := seed.Apply(cmd.Context(), a.directory, a.ledger, fx, a.logger)
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(sum, func(w io.Writer) {
		fmt.Fprintf(w, "Added %d resident(s), skipped %d duplicate(s), logged %d service(s)\n",
			sum.ResidentsAdded, sum.DuplicatesSkipped, sum.ServicesLogged)
	})
}
