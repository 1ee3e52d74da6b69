package main

import (
	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "decode <icap>...",
		Short:   "Decode direct ICAP identifiers into addresses",
		Example: `  icap decode XE7338O073KYGTWWZN0F2WZ0R8PX5ZPPZS`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPrinter(cmd, format)
			if err != nil {
				return err
			}

			svc := newService()
			for _, arg := range args {
				res, err := svc.Decode(cmd.Context(), arg)
				if err != nil {
					err = p.fail(arg, err)
				} else {
					err = p.result(arg, res, res.Address)
				}
				if err != nil {
					return err
				}
			}
			return p.done()
		},
	}

	addOutputFlag(cmd, &format)
	return cmd
}
