package cli

import (
	"github.com/mgpai22/clipcut/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "clipcut [video_file]",
	Short: "Losslessly cut a video between two timestamps",
	Long: `Clipcut trims a video file between a start and an end time without
re-encoding, using ffmpeg stream copy. Cuts snap to the nearest keyframes.

Drag a video file onto the clipcut executable, or pass its path. You will be
asked for the start and end times as HHMMSS digits: 45 is 45 seconds, 3245 is
32 minutes 45 seconds, 013245 is 1 hour 32 minutes 45 seconds.

The clip is written next to the clipcut executable as
<name>_<start>_<end>.<ext>; existing files are never overwritten.

Examples:
  clipcut movie.mp4
  clipcut movie.mp4 --start 3245 --end 013245 --yes
  clipcut movie.mkv -s 10 -e 130 -o ./clips --dry-run`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
	RunE: runCut,
}

func Execute() error {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
