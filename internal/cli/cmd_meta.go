package cli

import (
	"context"
	"encoding/json"
	"strconv"

	flag "github.com/spf13/pflag"

	pfs "github.com/emontools/phpfina/internal/fs"
	"github.com/emontools/phpfina/pkg/phpfina"
)

// MetaCmd prints a feed's [phpfina.MetaHeader] as JSON.
func MetaCmd(fsys pfs.FS, cfg phpfina.Config) *Command {
	flags := flag.NewFlagSet("meta", flag.ContinueOnError)

	return &Command{
		Flags: flags,
		Usage: "meta <feed-id>",
		Short: "Print a feed's decoded meta header",
		Exec: func(_ context.Context, o *IO, args []string) error {
			feedID, err := parseFeedID(args)
			if err != nil {
				return err
			}

			meta, err := phpfina.LoadMetaHeader(fsys, cfg, feedID)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(meta, "", "  ")
			if err != nil {
				return err
			}

			o.Println(string(data))

			return nil
		},
	}
}

func parseFeedID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errMissingFeedID
	}

	return strconv.ParseInt(args[0], 10, 64)
}
