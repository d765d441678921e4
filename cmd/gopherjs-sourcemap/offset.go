package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOffsetCmd(opts *options) *cobra.Command {
	out := &outputOptions{}
	var line, column, by int
	var columns bool

	cmd := &cobra.Command{
		Use:   "offset <map> --line <line> --by <delta>",
		Short: "Shift mappings after text was inserted into or removed from the generated file",
		Long: `Shift mappings after text was inserted into or removed from the generated file.

By default every mapping on --line and below moves by --by lines. With
--columns, only mappings on --line at or after --column move by --by columns.

Examples:
  gopherjs-sourcemap offset app.js.map --line 1 --by 2 -o app.js.map
  gopherjs-sourcemap offset app.js.map --columns --line 1 --column 10 --by -4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, err := newLoader(opts).load(args[0])
			if err != nil {
				return err
			}
			if columns {
				err = sm.OffsetColumns(line, column, by)
			} else {
				err = sm.OffsetLines(line, by)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return out.writeMap(sm, cmd.OutOrStdout())
		},
	}
	out.register(cmd.Flags())
	cmd.Flags().IntVar(&line, "line", 1, "first generated line to shift, starting at 1")
	cmd.Flags().IntVar(&column, "column", 0, "first generated column to shift, with --columns")
	cmd.Flags().IntVar(&by, "by", 0, "number of lines or columns to shift by, may be negative")
	cmd.Flags().BoolVar(&columns, "columns", false, "shift columns within --line instead of lines")
	return cmd
}
