package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/peterh/liner"

	pfs "github.com/emontools/phpfina/internal/fs"
	"github.com/emontools/phpfina/pkg/phpfina"
)

// ReplCmd opens an interactive shell for browsing feeds in cfg.DataDir and
// running ad hoc meta/values/stats queries without re-invoking the binary.
func ReplCmd(fsys pfs.FS, cfg phpfina.Config) *Command {
	flags := flag.NewFlagSet("repl", flag.ContinueOnError)

	return &Command{
		Flags: flags,
		Usage: "repl",
		Short: "Start an interactive shell over the feeds in --data-dir",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			r := &replState{fsys: fsys, cfg: cfg, out: o}
			return r.run()
		},
	}
}

type replState struct {
	fsys pfs.FS
	cfg  phpfina.Config
	out  *IO

	liner *liner.State
}

func replHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".fina_history")
}

func (r *replState) run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)

	if f, err := os.Open(replHistoryFile()); err == nil {
		_, _ = r.liner.ReadHistory(f)
		f.Close()
	}

	r.out.Println("fina - PhpFina feed browser (data_dir=" + r.cfg.DataDir + ")")
	r.out.Println("Type 'help' for available commands.")
	r.out.Println()

	for {
		line, err := r.liner.Prompt("fina> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				r.out.Println("Bye!")
				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		if f, err := os.Create(replHistoryFile()); err == nil {
			_, _ = r.liner.WriteHistory(f)
			f.Close()
		}

		parts := strings.Fields(line)
		r.dispatch(parts[0], parts[1:])
	}

	return nil
}

func (r *replState) dispatch(cmd string, args []string) {
	switch strings.ToLower(cmd) {
	case "help":
		r.out.Println("Commands:")
		r.out.Println("  meta <feed-id>                         print the decoded meta header")
		r.out.Println("  values <feed-id> <start> <step> <window>  print a resampled series")
		r.out.Println("  stats <feed-id> <start>                 print daily stats from start onward")
		r.out.Println("  quit                                    exit")
	case "quit", "exit":
		_ = r.liner.Close()
		os.Exit(0)
	case "meta":
		r.replMeta(args)
	case "values":
		r.replValues(args)
	case "stats":
		r.replStats(args)
	default:
		r.out.Println("unknown command:", cmd, "(type 'help')")
	}
}

func (r *replState) replMeta(args []string) {
	if len(args) != 1 {
		r.out.Println("usage: meta <feed-id>")
		return
	}

	feedID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		r.out.Println("error:", err)
		return
	}

	meta, err := phpfina.LoadMetaHeader(r.fsys, r.cfg, feedID)
	if err != nil {
		r.out.Println("error:", err)
		return
	}

	r.out.Printf("interval=%d start_time=%d npoints=%d end_time=%d\n",
		meta.Interval, meta.StartTime, meta.NPoints, meta.EndTime)
}

func (r *replState) replValues(args []string) {
	if len(args) != 4 {
		r.out.Println("usage: values <feed-id> <start> <step> <window>")
		return
	}

	nums, err := parseUints(args[1:])
	if err != nil {
		r.out.Println("error:", err)
		return
	}

	feedID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		r.out.Println("error:", err)
		return
	}

	series, err := phpfina.ReadSeries(r.fsys, r.cfg, feedID, nums[0], nums[1], nums[2])
	if err != nil {
		r.out.Println("error:", err)
		return
	}

	timestamps := series.Timestamps()
	for i, v := range series.Values {
		if phpfina.IsMissing(v) {
			r.out.Printf("%d\tnan\n", timestamps[i])
			continue
		}

		r.out.Printf("%d\t%g\n", timestamps[i], v)
	}
}

func (r *replState) replStats(args []string) {
	if len(args) != 2 {
		r.out.Println("usage: stats <feed-id> <start>")
		return
	}

	feedID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		r.out.Println("error:", err)
		return
	}

	nums, err := parseUints(args[1:])
	if err != nil {
		r.out.Println("error:", err)
		return
	}

	rows, err := phpfina.ComputeDailyStats(r.fsys, r.cfg, feedID, phpfina.StatsRequest{
		StartTime:   nums[0],
		StepsWindow: phpfina.AllSteps,
		Kind:        phpfina.StatsValues,
	})
	if err != nil {
		r.out.Println("error:", err)
		return
	}

	printStatsRows(r.out, rows, phpfina.StatsValues)
}

func parseUints(args []string) ([]uint64, error) {
	out := make([]uint64, len(args))

	for i, a := range args {
		v, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}
