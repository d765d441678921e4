package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gopherjs/sourcemap"
)

func newLookupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <map> <line>:<column>...",
		Short: "Find the original positions of generated positions",
		Long: `Find the original position of each generated position, using the closest
mapping at or before it. Lines start at 1, columns start at 0.

Example:
  gopherjs-sourcemap lookup app.js.map 1:2042 17:0`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			positions := make([]sourcemap.Position, len(args)-1)
			for i, arg := range args[1:] {
				p, err := parsePosition(arg)
				if err != nil {
					return err
				}
				positions[i] = p
			}
			sm, err := newLoader(opts).load(args[0])
			if err != nil {
				return err
			}
			for _, p := range positions {
				fmt.Fprintln(cmd.OutOrStdout(), describe(sm, p))
			}
			return nil
		},
	}
}

// parsePosition parses a "line:column" pair.
func parsePosition(s string) (sourcemap.Position, error) {
	line, column, ok := strings.Cut(s, ":")
	if !ok {
		return sourcemap.Position{}, fmt.Errorf("invalid position %q: want <line>:<column>", s)
	}
	l, err := strconv.Atoi(line)
	if err != nil || l < 1 {
		return sourcemap.Position{}, fmt.Errorf("invalid line in position %q", s)
	}
	c, err := strconv.Atoi(column)
	if err != nil || c < 0 {
		return sourcemap.Position{}, fmt.Errorf("invalid column in position %q", s)
	}
	return sourcemap.Position{Line: l, Column: c}, nil
}

// describe formats the lookup result for a single position.
func describe(sm *sourcemap.SourceMap, p sourcemap.Position) string {
	m, ok := sm.FindClosestMapping(p.Line, p.Column)
	switch {
	case !ok:
		return fmt.Sprintf("%v: no mapping", p)
	case m.Original == nil:
		return fmt.Sprintf("%v: unmapped (from %v)", p, m.Generated)
	case m.Name != "":
		return fmt.Sprintf("%v: %s:%v %s", p, m.Source, *m.Original, m.Name)
	default:
		return fmt.Sprintf("%v: %s:%v", p, m.Source, *m.Original)
	}
}
