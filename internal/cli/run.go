package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/emontools/phpfina/internal/config"
	pfs "github.com/emontools/phpfina/internal/fs"
	"github.com/emontools/phpfina/pkg/phpfina"
)

// Run is fina's entry point. Returns the process exit code.
func Run(_ io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	globalFlags := flag.NewFlagSet("fina", flag.ContinueOnError)
	globalFlags.SetInterspersed(false)
	globalFlags.Usage = func() {}
	globalFlags.SetOutput(&strings.Builder{})

	flagHelp := globalFlags.BoolP("help", "h", false, "Show help")
	flagCwd := globalFlags.StringP("cwd", "C", "", "Run as if started in `dir`")
	flagConfig := globalFlags.StringP("config", "c", "", "Use specified config `file`")
	flagDataDir := globalFlags.String("data-dir", "", "Override the feed `directory`")
	flagChunkFloor := globalFlags.Int("chunk-size-floor", 0, "Override the chunk size floor")
	flagMaxDataSize := globalFlags.Int64("max-data-size", 0, "Override the .dat size ceiling, in bytes")
	flagMaxMetaSize := globalFlags.Int64("max-meta-size", 0, "Override the .meta size ceiling, in bytes")

	if err := globalFlags.Parse(args[1:]); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	workDir := *flagCwd
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return 1
		}

		workDir = wd
	}

	envSlice := make([]string, 0, len(env))
	for k, v := range env {
		envSlice = append(envSlice, k+"="+v)
	}

	overrides := config.Overrides{
		DataDir:           *flagDataDir,
		HasDataDir:        globalFlags.Changed("data-dir"),
		ChunkSizeFloor:    *flagChunkFloor,
		HasChunkSizeFloor: globalFlags.Changed("chunk-size-floor"),
		MaxDataSize:       *flagMaxDataSize,
		HasMaxDataSize:    globalFlags.Changed("max-data-size"),
		MaxMetaSize:       *flagMaxMetaSize,
		HasMaxMetaSize:    globalFlags.Changed("max-meta-size"),
	}

	cfg, _, err := config.Load(workDir, *flagConfig, overrides, envSlice)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	fsys := pfs.NewReal()

	commands := allCommands(fsys, cfg)

	commandMap := make(map[string]*Command, len(commands))
	for _, cmd := range commands {
		commandMap[cmd.Name()] = cmd
	}

	commandAndArgs := globalFlags.Args()

	if *flagHelp || len(commandAndArgs) == 0 {
		printUsage(out, commands)
		return 0
	}

	cmdName := commandAndArgs[0]

	cmd, ok := commandMap[cmdName]
	if !ok {
		fmt.Fprintln(errOut, "error: unknown command:", cmdName)
		printUsage(errOut, commands)

		return 1
	}

	cmdIO := NewIO(out, errOut)

	return cmd.Run(context.Background(), cmdIO, commandAndArgs[1:])
}

func allCommands(fsys pfs.FS, cfg phpfina.Config) []*Command {
	return []*Command{
		MetaCmd(fsys, cfg),
		ValuesCmd(fsys, cfg),
		StatsCmd(fsys, cfg),
		CacheCmd(fsys, cfg),
		ReplCmd(fsys, cfg),
	}
}

func printUsage(w io.Writer, commands []*Command) {
	fmt.Fprintln(w, "fina - inspect and query PhpFina time-series feeds")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: fina [global flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")

	for _, cmd := range commands {
		fmt.Fprintln(w, cmd.HelpLine())
	}
}
