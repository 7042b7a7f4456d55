package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	pfs "github.com/emontools/phpfina/internal/fs"
	"github.com/emontools/phpfina/pkg/phpfina"
)

// ValuesCmd prints a feed's resampled (timestamp, value) series.
func ValuesCmd(fsys pfs.FS, cfg phpfina.Config) *Command {
	flags := flag.NewFlagSet("values", flag.ContinueOnError)
	start := flags.Uint64("start", 0, "Start unix timestamp")
	step := flags.Uint64("step", 0, "Resampling step in seconds, a multiple of the feed's interval")
	window := flags.Uint64("window", 0, "Window length in seconds")

	return &Command{
		Flags: flags,
		Usage: "values <feed-id> --start <t> --step <s> --window <w>",
		Short: "Print a feed's resampled series over a time window",
		Exec: func(_ context.Context, o *IO, args []string) error {
			feedID, err := parseFeedID(args)
			if err != nil {
				return err
			}

			if !flags.Changed("start") {
				return errMissingStart
			}

			if !flags.Changed("step") {
				return errMissingStep
			}

			if !flags.Changed("window") {
				return errMissingWindow
			}

			series, err := phpfina.ReadSeries(fsys, cfg, feedID, *start, *step, *window)
			if err != nil {
				return err
			}

			timestamps := series.Timestamps()
			for i, v := range series.Values {
				if phpfina.IsMissing(v) {
					o.Printf("%d\tnan\n", timestamps[i])
					continue
				}

				o.Printf("%d\t%g\n", timestamps[i], v)
			}

			return nil
		},
	}
}
