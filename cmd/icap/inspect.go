package main

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/mowind/icap-go/internal/codec"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "inspect <icap>",
		Short:   "Show the fields of an ICAP identifier",
		Example: `  icap inspect XE81ETHXREGGAVOFYORK`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPrinter(cmd, format)
			if err != nil {
				return err
			}

			res, err := newService().Parse(cmd.Context(), args[0])
			if err != nil {
				err = p.fail(args[0], err)
			} else {
				err = p.result(args[0], res, describe(res))
			}
			if err != nil {
				return err
			}
			return p.done()
		},
	}

	addOutputFlag(cmd, &format)
	return cmd
}

// describe 以对齐的 key/value 形式展示解析结果
func describe(res *codec.ParseResult) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	row := func(key, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s:\t%s\n", key, value)
		}
	}
	row("ICAP", res.ICAP)
	row("Print format", res.PrintFormat)
	row("Form", res.Form)
	row("Check digits", res.CheckDigits)
	row("Asset", res.Asset)
	row("Institution", res.Institution)
	row("Client", res.Client)
	row("Address", res.Address)
	_ = w.Flush()

	return strings.TrimRight(buf.String(), "\n")
}
