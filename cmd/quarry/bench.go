package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/quarry/pkg/frame"
	"github.com/ajitpratap0/quarry/pkg/ingest"
	"github.com/ajitpratap0/quarry/pkg/metrics"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

func newBenchCmd(a *app) *cobra.Command {
	var iterations int
	var cpuFile, memFile string
	cmd := &cobra.Command{
		Use:   "bench FILE",
		Short: "Compare sequential and parallel ingestion of a file",
		Long: `Read FILE repeatedly with the sequential and the parallel reader and
report the best time and throughput of each.

Example:
  quarry bench sales.csv --iterations 5 --cpuprofile cpu.prof`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if iterations < 1 {
				iterations = 1
			}
			if cpuFile != "" {
				f, err := os.Create(cpuFile) //nolint:gosec // G304: path is supplied by the user
				if err != nil {
					return fmt.Errorf("failed to create CPU profile: %w", err)
				}
				defer f.Close()
				if err := pprof.StartCPUProfile(f); err != nil {
					return fmt.Errorf("failed to start CPU profile: %w", err)
				}
				defer pprof.StopCPUProfile()
			}

			opts := a.ingestOptions()
			ctx := cmd.Context()
			modes := []struct {
				name string
				read func() (ingest.Stats, error)
			}{
				{"sequential", func() (ingest.Stats, error) {
					_, s, err := ingest.ReadFile(ctx, path, opts)
					return s, err
				}},
				{"parallel", func() (ingest.Stats, error) {
					_, s, err := ingest.ReadFileParallel(ctx, path, opts)
					return s, err
				}},
			}

			var names []string
			var best, rowsPerSec, mbPerSec, rows, chunks []scalar.Scalar
			for _, m := range modes {
				var fastest time.Duration
				var last ingest.Stats
				for i := 0; i < iterations; i++ {
					runtime.GC()
					timer := metrics.NewTimer(m.name)
					stats, err := m.read()
					elapsed := timer.Stop()
					if err != nil {
						return err
					}
					if fastest == 0 || elapsed < fastest {
						fastest = elapsed
					}
					last = stats
					a.log.Debug("bench iteration",
						zap.String("mode", m.name),
						zap.Int("iteration", i),
						zap.Duration("duration", elapsed))
				}
				secs := fastest.Seconds()
				names = append(names, m.name)
				best = append(best, scalar.Text(fastest.Round(time.Microsecond).String()))
				rows = append(rows, scalar.Int(int64(last.Rows)))
				chunks = append(chunks, scalar.Int(int64(last.Chunks)))
				rowsPerSec = append(rowsPerSec, scalar.Round(scalar.Float(float64(last.Rows)/secs), 0))
				mbPerSec = append(mbPerSec, scalar.Round(scalar.Float(float64(last.Bytes)/secs/(1<<20)), 1))
			}

			if memFile != "" {
				f, err := os.Create(memFile) //nolint:gosec // G304: path is supplied by the user
				if err != nil {
					return fmt.Errorf("failed to create memory profile: %w", err)
				}
				defer f.Close()
				runtime.GC()
				if err := pprof.WriteHeapProfile(f); err != nil {
					return fmt.Errorf("failed to write memory profile: %w", err)
				}
			}

			table, err := frame.New(
				frame.NewColumn("mode", frame.Texts(names...)),
				frame.NewColumn("rows", rows),
				frame.NewColumn("chunks", chunks),
				frame.NewColumn("best", best),
				frame.NewColumn("rows_per_sec", rowsPerSec),
				frame.NewColumn("mb_per_sec", mbPerSec),
			)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), table)
		},
	}
	cmd.Flags().IntVar(&iterations, "iterations", 3, "Reads per mode; the fastest is reported")
	cmd.Flags().StringVar(&cpuFile, "cpuprofile", "", "Write a CPU profile to this file")
	cmd.Flags().StringVar(&memFile, "memprofile", "", "Write a heap profile to this file")
	return cmd
}
