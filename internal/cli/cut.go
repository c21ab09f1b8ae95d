package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	ffmpegbin "github.com/mgpai22/clipcut/internal/ffmpeg"
	"github.com/mgpai22/clipcut/internal/logging"
	"github.com/mgpai22/clipcut/internal/naming"
	"github.com/mgpai22/clipcut/internal/timespec"
	"github.com/mgpai22/clipcut/internal/video"
)

var errNoInputFile = errors.New("no video file given")

func init() {
	rootCmd.Flags().
		StringP("start", "s", "", "Start time as HHMMSS digits (prompted for if omitted)")
	rootCmd.Flags().
		StringP("end", "e", "", "End time as HHMMSS digits (prompted for if omitted)")
	rootCmd.Flags().
		BoolP("yes", "y", false, "Cut without asking for confirmation")
	rootCmd.Flags().
		StringP("output-dir", "o", "", "Directory for the clip (default: the clipcut executable's directory)")
	rootCmd.Flags().
		Bool("dry-run", false, "Print the ffmpeg command instead of running it")
	rootCmd.Flags().
		Bool("wait", false, "Wait for Enter before exiting (default: on when stdin is a terminal)")
}

// shouldWait decides whether to hold the window open before exiting. An
// explicit --wait wins; otherwise a drag-and-drop launch gets a console
// attached, so wait whenever stdin is a terminal.
func shouldWait(flagSet, flagValue, stdinIsTerminal bool) bool {
	if flagSet {
		return flagValue
	}
	return stdinIsTerminal
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

type cutOptions struct {
	start     string
	end       string
	yes       bool
	dryRun    bool
	outputDir string
}

// cutSession runs one interactive cut.
type cutSession struct {
	processor  video.Processor
	ffmpegPath string
	prompt     *prompter
	out        io.Writer
	log        *logging.Logger
	opts       cutOptions
}

func runCut(cmd *cobra.Command, args []string) (err error) {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	yes, _ := cmd.Flags().GetBool("yes")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	waitFlag, _ := cmd.Flags().GetBool("wait")
	wait := shouldWait(cmd.Flags().Changed("wait"), waitFlag, isTerminal(cmd.InOrStdin()))

	out := cmd.OutOrStdout()
	prompt := newPrompter(cmd.InOrStdin(), out)

	if wait {
		defer func() {
			// print now; the window may close right after Enter
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				cmd.SilenceErrors = true
			}
			prompt.waitForEnter()
		}()
	}

	if len(args) == 0 {
		fmt.Fprintln(out, "Please drag a video file onto clipcut, or pass the video file path as an argument.")
		fmt.Fprintln(out, "Usage: clipcut <video_file>")
		return errNoInputFile
	}

	if outputDir == "" {
		if outputDir, err = naming.ToolDir(); err != nil {
			return err
		}
	}

	paths, err := ffmpegbin.Ensure()
	if err != nil && !dryRun {
		return err
	}
	ffmpegPath := paths.FFmpeg
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	processor := video.NewProcessor(paths)
	if verbose {
		processor.Stderr = cmd.ErrOrStderr()
	}

	session := &cutSession{
		processor:  processor,
		ffmpegPath: ffmpegPath,
		prompt:     prompt,
		out:        out,
		log:        logger,
		opts: cutOptions{
			start:     start,
			end:       end,
			yes:       yes,
			dryRun:    dryRun,
			outputDir: outputDir,
		},
	}

	return session.run(cmd.Context(), args[0])
}

func (s *cutSession) run(ctx context.Context, inputPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	info, err := video.CheckInput(inputPath)
	if err != nil {
		return err
	}
	if !video.IsVideoFile(inputPath) {
		s.log.Warnw("Input does not have a known video extension", "input", inputPath)
	}

	fmt.Fprintf(s.out, "Input file: %s\n", inputPath)
	fmt.Fprintf(s.out, "File size: %s\n", humanize.Bytes(uint64(info.Size())))

	start, err := s.startTime()
	if err != nil {
		return err
	}
	end, err := s.endTime(start)
	if err != nil {
		return err
	}

	req, err := video.NewCutRequest(inputPath, start, end)
	if err != nil {
		return err
	}
	s.checkAgainstDuration(ctx, req)

	fmt.Fprintf(s.out, "\nStart time: %s\n", start.Clock())
	fmt.Fprintf(s.out, "End time: %s\n", end.Clock())
	fmt.Fprintf(s.out, "Duration: %s\n", timespec.FormatClock(req.Duration()))

	outputPath, err := naming.OutputPath(s.opts.outputDir, inputPath, start, end)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Output file: %s\n", outputPath)

	args := video.BuildCutArgs(req, outputPath)
	s.log.Debugw("ffmpeg command", "binary", s.ffmpegPath, "args", args)

	if s.opts.dryRun {
		fmt.Fprintf(s.out, "\n%s %s\n", s.ffmpegPath, strings.Join(args, " "))
		return nil
	}

	if !s.opts.yes {
		ok, err := s.prompt.confirm("\nConfirm cutting? (Y/n): ")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.out, "Operation cancelled.")
			return nil
		}
	}

	s.log.Infow("Cutting video (stream copy, no re-encoding)",
		"input", inputPath,
		"start", req.Start.Seconds(),
		"end", req.End.Seconds(),
		"output", outputPath,
	)

	if err := s.processor.Cut(ctx, req, outputPath); err != nil {
		return fmt.Errorf("cut failed: %w", err)
	}

	fmt.Fprintf(s.out, "\nOutput file saved to: %s\n", outputPath)
	if outInfo, err := os.Stat(outputPath); err == nil {
		fmt.Fprintf(s.out, "Output file size: %s\n", humanize.Bytes(uint64(outInfo.Size())))
	}

	return nil
}

// startTime uses the --start value when given, otherwise asks until the
// reply parses.
func (s *cutSession) startTime() (timespec.TimeSpec, error) {
	if s.opts.start != "" {
		return timespec.Parse(s.opts.start)
	}
	for {
		answer, err := s.prompt.ask("Please enter start time (format: HHMMSS): ")
		if err != nil {
			return timespec.TimeSpec{}, fmt.Errorf("start time: %w", err)
		}
		start, err := timespec.Parse(answer)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			continue
		}
		return start, nil
	}
}

// endTime is like startTime but also requires the result to be after start.
func (s *cutSession) endTime(start timespec.TimeSpec) (timespec.TimeSpec, error) {
	if s.opts.end != "" {
		end, err := timespec.Parse(s.opts.end)
		if err != nil {
			return timespec.TimeSpec{}, err
		}
		return end, timespec.ValidateOrder(start, end)
	}
	for {
		answer, err := s.prompt.ask("Please enter end time (format: HHMMSS): ")
		if err != nil {
			return timespec.TimeSpec{}, fmt.Errorf("end time: %w", err)
		}
		end, err := timespec.Parse(answer)
		if err == nil {
			err = timespec.ValidateOrder(start, end)
		}
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			continue
		}
		return end, nil
	}
}

// checkAgainstDuration warns when the cut runs past the end of the media.
// Probing is best effort.
func (s *cutSession) checkAgainstDuration(ctx context.Context, req video.CutRequest) {
	info, err := s.processor.GetInfo(ctx, req.InputPath)
	if err != nil {
		s.log.Debugw("Skipping duration check", "error", err)
		return
	}
	if info.Duration <= 0 {
		return
	}
	if req.Start.Duration() >= info.Duration {
		s.log.Warnw("Start time is past the end of the video",
			"start", req.Start.Clock(),
			"video_duration", timespec.FormatClock(info.Duration),
		)
	} else if req.End.Duration() > info.Duration {
		s.log.Warnw("End time is past the end of the video; the clip will stop at the end",
			"end", req.End.Clock(),
			"video_duration", timespec.FormatClock(info.Duration),
		)
	}
}
