package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	treescan "github.com/TFMV/treescan/internal/walk"
)

var (
	watchDebounce time.Duration
	watchTimeout  time.Duration
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch a directory tree and report refreshed totals on changes",
	Long: `Watch monitors a directory tree and recomputes the per-type counts and
size totals whenever the tree changes. The refreshed totals are printed
after each quiet period.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}
		return runWatch(root)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", treescan.DefaultDebounce, "Quiet period after the last event before rescanning")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 0, "Stop watching after this duration (0 for no timeout)")
}

func runWatch(root string) error {
	level, err := treescan.ParseLogLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}
	logger := treescan.NewLogger(level)
	defer logger.Sync()

	opts := treescan.WatchOptions{
		Debounce: watchDebounce,
		Timeout:  watchTimeout,
		Logger:   logger,
	}

	handler := func(_ context.Context, stats treescan.Stats) error {
		_, err := fmt.Printf("%s  dirs=%d files=%d links=%d pipes=%d sockets=%d size=%s blocks=%d\n",
			time.Now().Format(time.TimeOnly),
			stats.Dirs, stats.Files, stats.Links, stats.Fifos, stats.Socks,
			humanize.IBytes(stats.Size), stats.Blocks)
		return err
	}

	return treescan.Watch(context.Background(), root, opts, handler)
}
