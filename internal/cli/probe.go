package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	ffmpegbin "github.com/mgpai22/clipcut/internal/ffmpeg"
	"github.com/mgpai22/clipcut/internal/timespec"
	"github.com/mgpai22/clipcut/internal/video"
)

var probeCmd = &cobra.Command{
	Use:   "probe [video_file]",
	Short: "Show duration and stream details of a video file",
	Long: `Show the duration, resolution, codec and audio presence of a video file
using ffprobe. Useful for picking cut points before running clipcut.

Examples:
  clipcut probe movie.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return err
	}

	logger.Debugw("Probing video",
		"video", videoPath,
		"ffprobe", ffprobePath,
	)

	processor := video.NewProcessor(ffmpegbin.BinaryPaths{FFprobe: ffprobePath})
	info, err := processor.GetInfo(cmd.Context(), videoPath)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}

	printInfo(cmd.OutOrStdout(), info)
	return nil
}

func printInfo(w io.Writer, info *video.Info) {
	absPath, err := filepath.Abs(info.Path)
	if err != nil {
		absPath = info.Path
	}
	fmt.Fprintf(w, "File: %s\n", absPath)
	fmt.Fprintf(w, "  Duration: %s\n", timespec.FormatClock(info.Duration))
	if info.Codec != "" {
		fmt.Fprintf(w, "  Video: %s %dx%d @ %.3f fps\n",
			info.Codec, info.Width, info.Height, info.FrameRate)
	} else {
		fmt.Fprintln(w, "  Video: none")
	}
	fmt.Fprintf(w, "  Audio: %t\n", info.HasAudio)
	if info.Size > 0 {
		fmt.Fprintf(w, "  Size: %s\n", humanize.Bytes(uint64(info.Size)))
	}
}
