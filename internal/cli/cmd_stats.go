package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	pfs "github.com/emontools/phpfina/internal/fs"
	"github.com/emontools/phpfina/pkg/phpfina"
)

// StatsCmd prints a feed's daily min/mean/max (or integrity) rows.
func StatsCmd(fsys pfs.FS, cfg phpfina.Config) *Command {
	flags := flag.NewFlagSet("stats", flag.ContinueOnError)
	start := flags.Uint64("start", 0, "Start unix timestamp")
	window := flags.Int64("window", 0, "Number of stored samples to scan")
	all := flags.Bool("all", false, "Scan every stored sample from --start onward")
	minV := flags.Float64("min", 0, "Exclude samples below this value")
	maxV := flags.Float64("max", 0, "Exclude samples above this value")
	integrity := flags.Bool("integrity", false, "Report only finite/total counts, skipping min/mean/max")

	return &Command{
		Flags: flags,
		Usage: "stats <feed-id> --start <t> [--window <n>|--all] [--min <v>] [--max <v>] [--integrity]",
		Short: "Print a feed's daily statistics",
		Exec: func(_ context.Context, o *IO, args []string) error {
			feedID, err := parseFeedID(args)
			if err != nil {
				return err
			}

			if !flags.Changed("start") {
				return errMissingStart
			}

			if *all && flags.Changed("window") {
				return errWindowAndAll
			}

			req := phpfina.StatsRequest{
				StartTime:   *start,
				StepsWindow: *window,
				Kind:        phpfina.StatsValues,
			}

			if *all {
				req.StepsWindow = phpfina.AllSteps
			}

			if *integrity {
				req.Kind = phpfina.StatsIntegrity
			}

			if flags.Changed("min") {
				v := *minV
				req.MinValue = &v
			}

			if flags.Changed("max") {
				v := *maxV
				req.MaxValue = &v
			}

			rows, err := phpfina.ComputeDailyStats(fsys, cfg, feedID, req)
			if err != nil {
				return err
			}

			printStatsRows(o, rows, req.Kind)

			return nil
		},
	}
}

func printStatsRows(o *IO, rows []phpfina.DayStats, kind phpfina.StatsKind) {
	for _, row := range rows {
		if kind == phpfina.StatsIntegrity {
			o.Printf("%d\tn_finite=%d\tn_total=%d\n", row.DayStart, row.NFinite, row.NTotal)
			continue
		}

		o.Printf("%d\tmin=%g\tmean=%g\tmax=%g\tn_finite=%d\tn_total=%d\n",
			row.DayStart, row.Min, row.Mean, row.Max, row.NFinite, row.NTotal)
	}
}
