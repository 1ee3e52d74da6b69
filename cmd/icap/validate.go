package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var (
		format       string
		skipChecksum bool
	)

	cmd := &cobra.Command{
		Use:   "validate [--skip-checksum] <icap>...",
		Short: "Check ICAP identifiers",
		Long: `Check the structure and, unless --skip-checksum is given, the mod-97
checksum of each identifier. The command exits non-zero if any input is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPrinter(cmd, format)
			if err != nil {
				return err
			}

			svc := newService()
			for _, arg := range args {
				res := svc.Validate(cmd.Context(), arg, skipChecksum)
				if res.Valid {
					err = p.result(arg, res, fmt.Sprintf("%s: valid (%s)", arg, res.Form))
				} else {
					err = p.rejected(arg, res, fmt.Sprintf("%s: invalid (%s)", arg, res.Reason))
				}
				if err != nil {
					return err
				}
			}
			return p.done()
		},
	}

	cmd.Flags().BoolVar(&skipChecksum, "skip-checksum", false, "Only check the structure")
	addOutputFlag(cmd, &format)
	return cmd
}
