package main

import (
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "encode <address>...",
		Short: "Encode addresses into direct ICAP identifiers",
		Example: `  icap encode 0x00c5496aee77c1ba1f0854206a26dda82a81d6d8
  icap encode -o json 0x0000000000000000000000000000000000000001`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPrinter(cmd, format)
			if err != nil {
				return err
			}

			svc := newService()
			for _, arg := range args {
				res, err := svc.Encode(cmd.Context(), arg)
				if err != nil {
					err = p.fail(arg, err)
				} else {
					err = p.result(arg, res, res.ICAP)
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
