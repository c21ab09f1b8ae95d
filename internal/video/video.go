package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/clipcut/internal/ffmpeg"
	"github.com/mgpai22/clipcut/internal/timespec"
)

// video file information
type Info struct {
	Path      string
	Duration  time.Duration
	Width     int
	Height    int
	FrameRate float64
	Codec     string
	HasAudio  bool
	Size      int64
}

// a single cut between two offsets of one input file
type CutRequest struct {
	InputPath string
	Start     timespec.TimeSpec
	End       timespec.TimeSpec
}

// builds a request, rejecting an end that is not after the start
func NewCutRequest(
	inputPath string,
	start, end timespec.TimeSpec,
) (CutRequest, error) {
	if err := timespec.ValidateOrder(start, end); err != nil {
		return CutRequest{}, err
	}
	return CutRequest{InputPath: inputPath, Start: start, End: end}, nil
}

// length of the cut
func (r CutRequest) Duration() time.Duration {
	return r.End.Duration() - r.Start.Duration()
}

// defines interface for video processing operations
type Processor interface {
	// copies the streams between req.Start and req.End into outputPath
	Cut(ctx context.Context, req CutRequest, outputPath string) error

	// retrieves video file information
	GetInfo(ctx context.Context, videoPath string) (*Info, error)
}

// default implementation using ffmpeg
type DefaultProcessor struct {
	ffmpegPath  string
	ffprobePath string

	// Stderr, when set, also receives ffmpeg's stderr as it runs.
	Stderr io.Writer
}

func NewProcessor(paths ffmpegbin.BinaryPaths) *DefaultProcessor {
	return &DefaultProcessor{
		ffmpegPath:  paths.FFmpeg,
		ffprobePath: paths.FFprobe,
	}
}

// cutStream describes a stream-copy cut with ffmpeg-go. The output is never
// overwritten.
func cutStream(req CutRequest, outputPath string) *ffmpeg.Stream {
	kwargs := ffmpeg.KwArgs{
		"ss":                strconv.Itoa(req.Start.Seconds()),
		"to":                strconv.Itoa(req.End.Seconds()),
		"c":                 "copy",      // No re-encode
		"map":               "0",         // Keep every stream
		"avoid_negative_ts": "make_zero", // Cut lands between keyframes
		"n":                 "",          // Never overwrite output
	}

	return ffmpeg.Input(req.InputPath).Output(outputPath, kwargs)
}

// BuildCutArgs returns ffmpeg's arguments (without the program name) for a
// stream-copy cut.
func BuildCutArgs(req CutRequest, outputPath string) []string {
	return cutStream(req, outputPath).GetArgs()
}

// cuts the requested range out of the input without re-encoding
func (p *DefaultProcessor) Cut(
	ctx context.Context,
	req CutRequest,
	outputPath string,
) error {
	if _, err := CheckInput(req.InputPath); err != nil {
		return err
	}
	if err := timespec.ValidateOrder(req.Start, req.End); err != nil {
		return err
	}
	if p.ffmpegPath == "" {
		return ffmpegbin.ErrFFmpegNotFound
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var stderr bytes.Buffer
	var errOut io.Writer = &stderr
	if p.Stderr != nil {
		errOut = io.MultiWriter(&stderr, p.Stderr)
	}

	// ffmpeg-go keeps the stderr writer in Context, so ctx goes in first.
	stream := cutStream(req, outputPath)
	stream.Context = ctx
	stream = stream.
		SetFfmpegPath(p.ffmpegPath).
		WithErrorOutput(errOut).
		Silent(true)

	if err := stream.Run(); err != nil {
		return classifyRunError(p.ffmpegPath, err, stderr.String())
	}
	return nil
}

func classifyRunError(binary string, err error, stderr string) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &FFmpegError{
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderr,
			Err:      err,
		}
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w (%s)", ffmpegbin.ErrFFmpegNotFound, binary)
	}
	return fmt.Errorf("ffmpeg execution failed: %w", err)
}

// CheckInput confirms path names an existing regular file.
func CheckInput(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}
	return info, nil
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".wmv":  true,
		".flv":  true,
		".webm": true,
		".m4v":  true,
		".mpeg": true,
		".mpg":  true,
		".3gp":  true,
		".ts":   true,
		".m2ts": true,
	}
	return videoExts[ext]
}
