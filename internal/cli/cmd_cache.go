package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	flag "github.com/spf13/pflag"

	pfs "github.com/emontools/phpfina/internal/fs"
	"github.com/emontools/phpfina/pkg/phpfina"
)

// CacheCmd precomputes a feed's daily stats and writes them to a derived
// sidecar file (<feed-id>.stats.json next to the feed's .dat file) via an
// atomic rename so a reader never observes a partial write. This is a
// rebuildable cache over an immutable .dat file, not a second write path
// into the feed format itself.
func CacheCmd(fsys pfs.FS, cfg phpfina.Config) *Command {
	flags := flag.NewFlagSet("cache", flag.ContinueOnError)
	start := flags.Uint64("start", 0, "Start unix timestamp")

	return &Command{
		Flags: flags,
		Usage: "cache <feed-id> --start <t>",
		Short: "Precompute daily stats and write them to a sidecar cache file",
		Exec: func(_ context.Context, o *IO, args []string) error {
			feedID, err := parseFeedID(args)
			if err != nil {
				return err
			}

			if !flags.Changed("start") {
				return errMissingStart
			}

			rows, err := phpfina.ComputeDailyStats(fsys, cfg, feedID, phpfina.StatsRequest{
				StartTime:   *start,
				StepsWindow: phpfina.AllSteps,
				Kind:        phpfina.StatsValues,
			})
			if err != nil {
				return err
			}

			cachePath := filepath.Join(cfg.DataDir, strconv.FormatInt(feedID, 10)+".stats.json")

			lock, err := fsys.Lock(cachePath)
			if err != nil {
				return fmt.Errorf("locking cache file: %w", err)
			}
			defer lock.Close()

			data, err := json.MarshalIndent(rows, "", "  ")
			if err != nil {
				return err
			}

			if err := fsys.WriteFileAtomic(cachePath, data, 0o644); err != nil {
				return fmt.Errorf("writing cache file: %w", err)
			}

			o.Println(cachePath)

			return nil
		},
	}
}
