package video

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFileNotFound   = errors.New("file does not exist")
	ErrNotRegularFile = errors.New("not a valid file")
)

// FFmpegError is returned when ffmpeg ran but exited unsuccessfully.
type FFmpegError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *FFmpegError) Error() string {
	msg := fmt.Sprintf("ffmpeg exited with status %d", e.ExitCode)
	if last := lastLine(e.Stderr); last != "" {
		msg += ": " + last
	}
	return msg
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}

// IsFFmpegError checks if the error is an FFmpegError
func IsFFmpegError(err error) bool {
	var target *FFmpegError
	return errors.As(err, &target)
}

// lastLine returns the last non-blank line of ffmpeg's stderr, which is where
// it reports the fatal cause.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
