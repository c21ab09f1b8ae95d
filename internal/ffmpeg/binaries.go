package ffmpeg

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	ffmpegPathEnv  = "CLIPCUT_FFMPEG_PATH"
	ffprobePathEnv = "CLIPCUT_FFPROBE_PATH"
)

var (
	ErrFFmpegNotFound = errors.New(
		"ffmpeg not found: install ffmpeg and add it to PATH, or place it next to clipcut",
	)
	ErrFFprobeNotFound = errors.New("ffprobe not found")
)

// FFprobe is optional and may be empty.
type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure locates ffmpeg and ffprobe once per process. Each binary is taken
// from its CLIPCUT_*_PATH variable, then from the executable's directory, then
// from PATH.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = locate(os.Getenv, executableDir(), exec.LookPath)
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, _ := Ensure()
	if paths.FFprobe == "" {
		return "", ErrFFprobeNotFound
	}
	return paths.FFprobe, nil
}

func locate(
	getenv func(string) string,
	toolDir string,
	lookPath func(string) (string, error),
) (BinaryPaths, error) {
	paths := BinaryPaths{
		FFmpeg:  find("ffmpeg", getenv(ffmpegPathEnv), toolDir, lookPath),
		FFprobe: find("ffprobe", getenv(ffprobePathEnv), toolDir, lookPath),
	}
	if paths.FFmpeg == "" {
		return paths, ErrFFmpegNotFound
	}
	return paths, nil
}

func find(
	name, override, toolDir string,
	lookPath func(string) (string, error),
) string {
	if override != "" {
		return override
	}
	if toolDir != "" {
		local := filepath.Join(toolDir, name+executableSuffix())
		if fileExists(local) {
			return local
		}
	}
	if found, err := lookPath(name); err == nil {
		return found
	}
	return ""
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

func executableSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
