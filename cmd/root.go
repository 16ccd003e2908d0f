package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	treescan "github.com/TFMV/treescan/internal/walk"
)

var version = "0.1.0"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "treescan [flags] [path...]",
	Short: "Gather information about directory trees",
	Long: heredoc.Doc(`
		treescan recursively walks one or more directory trees, printing each
		entry in a deterministic order (directories first, then by name) and
		optionally aggregating per-type counts and size totals.

		If no path is given, the current directory is analyzed. At most 64
		paths are processed; extra paths are ignored with a warning.

		Examples:
		  treescan /var/log
		  treescan -s /usr/share /opt
		  treescan -v --format=json .
	`),
	Version: version,
	Args:    cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().BoolP("tree", "t", false, "Print the directory tree (default when no other mode is given)")
	rootCmd.Flags().BoolP("summary", "s", false, "Print a per-root summary and a grand total for multiple roots")
	rootCmd.Flags().BoolP("verbose", "v", false, "Print owner, size, blocks and permissions per entry (implies tree view)")
	rootCmd.Flags().String("format", "text", "Output format (text|json)")
	rootCmd.Flags().String("error-mode", "silent", "Unreadable directory policy (silent|warn)")
	rootCmd.Flags().Int("max-depth", 0, "Maximum traversal depth (0 for unlimited)")
	rootCmd.PersistentFlags().String("log-level", "error", "Log verbosity (error|warn|info|debug)")

	viper.BindPFlag("tree", rootCmd.Flags().Lookup("tree"))
	viper.BindPFlag("summary", rootCmd.Flags().Lookup("summary"))
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))
	viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
	viper.BindPFlag("error-mode", rootCmd.Flags().Lookup("error-mode"))
	viper.BindPFlag("max-depth", rootCmd.Flags().Lookup("max-depth"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in environment variables that match bound flags.
func initConfig() {
	viper.SetEnvPrefix("TREESCAN")
	viper.AutomaticEnv()
}

func runScan(paths []string) error {
	flags := treescan.Flags(0)
	if viper.GetBool("tree") {
		flags |= treescan.FlagTree
	}
	if viper.GetBool("summary") {
		flags |= treescan.FlagSummary
	}
	if viper.GetBool("verbose") {
		// Verbose implies tree view.
		flags |= treescan.FlagVerbose | treescan.FlagTree
	}
	if flags == 0 {
		flags = treescan.FlagTree
	}

	format := viper.GetString("format")
	switch format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q (must be text or json)", format)
	}

	var errorMode treescan.ErrorMode
	switch viper.GetString("error-mode") {
	case "silent":
		errorMode = treescan.SkipSilent
	case "warn":
		errorMode = treescan.SkipWarn
	default:
		return fmt.Errorf("invalid error-mode %q (must be silent or warn)", viper.GetString("error-mode"))
	}

	level, err := treescan.ParseLogLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}
	logger := treescan.NewLogger(level)
	defer logger.Sync()

	opts := treescan.Options{
		Flags:     flags,
		Logger:    logger,
		ErrorMode: errorMode,
		MaxDepth:  viper.GetInt("max-depth"),
	}

	if format == "json" {
		res, err := treescan.ScanRoots(paths, opts)
		if err != nil {
			return err
		}
		return treescan.RenderJSON(os.Stdout, res)
	}

	renderer := treescan.NewTextRenderer(os.Stdout, flags)
	opts.Sink = renderer.Sink
	opts.OnRootBegin = renderer.BeginRoot
	opts.OnRootEnd = renderer.EndRoot

	// Summary-only scans print nothing until the end, so show an in-place
	// progress line on a terminal.
	if !flags.Has(treescan.FlagTree) && isatty.IsTerminal(os.Stderr.Fd()) {
		progress := &progressLine{w: os.Stderr}
		sink := opts.Sink
		opts.Sink = func(ev treescan.Event) error {
			progress.tick(ev)
			return sink(ev)
		}
		defer progress.clear()
	}

	res, err := treescan.ScanRoots(paths, opts)
	if err != nil {
		return err
	}
	renderer.Total(res)
	return renderer.Err()
}

// progressLine writes an in-place scanning status to a terminal.
type progressLine struct {
	w       io.Writer
	entries uint64
	bytes   uint64
	last    time.Time
}

func (p *progressLine) tick(ev treescan.Event) {
	p.entries++
	if ev.Entry.Kind != treescan.KindDir && ev.Entry.Size > 0 {
		p.bytes += uint64(ev.Entry.Size)
	}
	if time.Since(p.last) < 200*time.Millisecond {
		return
	}
	p.last = time.Now()
	fmt.Fprintf(p.w, "\r\033[2KScanning… %d entries, %s", p.entries, humanize.IBytes(p.bytes))
}

func (p *progressLine) clear() {
	fmt.Fprint(p.w, "\r\033[2K")
}
