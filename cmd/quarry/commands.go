package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/quarry/pkg/compression"
	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/export"
	"github.com/ajitpratap0/quarry/pkg/frame"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Quarry v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newHeadCmd(a *app) *cobra.Command {
	var n int
	var tail bool
	cmd := &cobra.Command{
		Use:   "head SOURCE",
		Short: "Print the first (or last) rows of a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if tail {
				table = table.Tail(n)
			} else {
				table = table.Head(n)
			}
			return a.render(cmd.OutOrStdout(), table)
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", 10, "Number of rows")
	cmd.Flags().BoolVar(&tail, "tail", false, "Print the last rows instead")
	return cmd
}

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe SOURCE",
		Short: "Summarise numeric columns (count, mean, min, max, sum)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), table.Describe())
		},
	}
}

func newGroupByCmd(a *app) *cobra.Command {
	var by, aggs []string
	var sortBy string
	var desc bool
	var limit int
	cmd := &cobra.Command{
		Use:   "groupby SOURCE",
		Short: "Group rows and aggregate columns",
		Long: `Group rows by one or more key columns and aggregate other columns.

Aggregations are COLUMN:FUNC pairs with FUNC one of count, sum, mean, min,
max. Without --agg the group sizes are printed.

Example:
  quarry groupby sales.csv --by state --agg amount:sum --sort amount --desc -n 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			aggregations, err := parseAggregations(aggs)
			if err != nil {
				return err
			}
			table, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			start := time.Now()
			groups, err := table.GroupBy(by...)
			if err != nil {
				return err
			}
			var out *frame.Table
			if len(aggregations) == 0 {
				out, err = groups.Count()
			} else {
				out, err = groups.Agg(aggregations...)
			}
			if err != nil {
				return err
			}
			if sortBy != "" {
				if out, err = out.Sort([]string{sortBy}, !desc); err != nil {
					return err
				}
			}
			if limit > 0 {
				out = out.Head(limit)
			}
			a.log.Info("groupby finished",
				zap.Strings("by", by),
				zap.Int("groups", groups.NumGroups()),
				zap.Duration("duration", time.Since(start)))
			return a.render(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringSliceVar(&by, "by", nil, "Grouping columns (required)")
	cmd.Flags().StringSliceVar(&aggs, "agg", nil, "Aggregations as COLUMN:FUNC")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort the result by this column")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().IntVarP(&limit, "rows", "n", 0, "Limit output rows (0 = all)")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func newJoinCmd(a *app) *cobra.Command {
	var opts frame.JoinOptions
	var how string
	var limit int
	cmd := &cobra.Command{
		Use:   "join LEFT RIGHT",
		Short: "Join two sources on key columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := frame.ParseJoinKind(how)
			if err != nil {
				return err
			}
			opts.How = kind
			left, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			right, err := a.open(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			out, err := left.Join(right, opts)
			if err != nil {
				return err
			}
			if limit > 0 {
				out = out.Head(limit)
			}
			return a.render(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&opts.On, "on", "", "Key column present in both sources")
	cmd.Flags().StringVar(&opts.LeftOn, "left-on", "", "Key column of LEFT")
	cmd.Flags().StringVar(&opts.RightOn, "right-on", "", "Key column of RIGHT")
	cmd.Flags().StringVar(&how, "how", "inner", "Join kind (inner, left, right, outer)")
	cmd.Flags().StringVar(&opts.Suffix, "suffix", frame.DefaultJoinSuffix, "Suffix for clashing RIGHT column names")
	cmd.Flags().IntVarP(&limit, "rows", "n", 0, "Limit output rows (0 = all)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var out, format, algo string
	var columns []string
	cmd := &cobra.Command{
		Use:   "export SOURCE",
		Short: "Convert a source to JSON, CSV, Arrow or Avro",
		Long: `Convert a source to another format. The format and compression are
inferred from the output file name unless given explicitly.

Example:
  quarry export sales.csv --out sales.arrow
  quarry export sales.csv --out sales.json.zst --select state,amount`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg export.Config
			var err error
			if format != "" {
				if cfg.Format, err = export.ParseFormat(format); err != nil {
					return err
				}
			}
			if algo != "" {
				if cfg.Compression, err = compression.ParseAlgorithm(algo); err != nil {
					return err
				}
			}
			table, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(columns) > 0 {
				if table, err = table.Select(columns...); err != nil {
					return err
				}
			}
			if err := export.WriteFile(out, table, cfg); err != nil {
				return err
			}
			a.log.Info("export finished",
				zap.String("path", out),
				zap.Int("rows", table.NumRows()))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file (required)")
	cmd.Flags().StringVar(&format, "format", "", "Output format (json, csv, arrow, avro, table)")
	cmd.Flags().StringVar(&algo, "compression", "", "Compression (none, gzip, zstd, snappy, s2, lz4)")
	cmd.Flags().StringSliceVar(&columns, "select", nil, "Export only these columns")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newDatasetsCmd(a *app) *cobra.Command {
	var load bool
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List configured datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if load {
				if err := a.cache.LoadAll(cmd.Context()); err != nil {
					return err
				}
			}
			names := []string{}
			paths := []string{}
			status := []string{}
			rows := []scalar.Scalar{}
			for _, info := range a.cache.Stat() {
				names = append(names, info.Name)
				paths = append(paths, info.Path)
				switch {
				case info.Loaded:
					status = append(status, "loaded in "+info.Duration.Round(time.Millisecond).String())
					rows = append(rows, scalar.Int(int64(info.Rows)))
				case info.Err != nil:
					status = append(status, "error: "+info.Err.Error())
					rows = append(rows, scalar.Null())
				default:
					status = append(status, "not loaded")
					rows = append(rows, scalar.Null())
				}
			}
			table, err := frame.New(
				frame.NewColumn("name", frame.Texts(names...)),
				frame.NewColumn("path", frame.Texts(paths...)),
				frame.NewColumn("rows", rows),
				frame.NewColumn("status", frame.Texts(status...)),
			)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), table)
		},
	}
	cmd.Flags().BoolVar(&load, "load", false, "Load every dataset before listing")
	return cmd
}

// render writes t in the --output format.
func (a *app) render(w io.Writer, t *frame.Table) error {
	format, err := export.ParseFormat(a.v.GetString("output"))
	if err != nil {
		return err
	}
	return export.Write(w, t, export.Config{Format: format, Separator: a.cfg.Ingest.SeparatorRune()})
}

// parseAggregations turns COLUMN:FUNC pairs into aggregations.
func parseAggregations(pairs []string) ([]frame.Aggregation, error) {
	out := make([]frame.Aggregation, 0, len(pairs))
	for _, pair := range pairs {
		i := strings.LastIndexByte(pair, ':')
		if i <= 0 || i == len(pair)-1 {
			return nil, errors.Newf(errors.ErrorTypeValidation, "aggregation %q must be COLUMN:FUNC", pair)
		}
		fn, err := frame.ParseAggFunc(pair[i+1:])
		if err != nil {
			return nil, err
		}
		out = append(out, frame.Aggregation{Column: pair[:i], Func: fn})
	}
	return out, nil
}
