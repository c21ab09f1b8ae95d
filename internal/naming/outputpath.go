// Package naming derives where a cut clip is written.
package naming

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/clipcut/internal/timespec"
)

// OutputPath returns the first free path for a clip cut from inputPath:
//
//	<dir>/<stem>_<start>_<end><ext>
//	<dir>/<stem>_<start>_<end>_1<ext>, _2, ...   when taken
//
// start and end contribute their digits as typed. dir may be missing (it is
// created at cut time) but must not be a file. The filesystem is only read,
// never written.
func OutputPath(dir, inputPath string, start, end timespec.TimeSpec) (string, error) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return "", fmt.Errorf("output directory: %w", err)
	case !info.IsDir():
		return "", fmt.Errorf("output directory: %w: %s", ErrNotDirectory, dir)
	}
	return resolve(dir, inputPath, start.Digits(), end.Digits(), pathExists)
}

// ErrNotDirectory is returned when the output directory names a file.
var ErrNotDirectory = errors.New("not a directory")

func resolve(
	dir, inputPath, startDigits, endDigits string,
	exists func(string) (bool, error),
) (string, error) {
	stem, ext := splitName(filepath.Base(inputPath))
	name := fmt.Sprintf("%s_%s_%s", stem, startDigits, endDigits)

	candidate := filepath.Join(dir, name+ext)
	for n := 1; ; n++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("check output path: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", name, n, ext))
	}
}

// splitName splits base into stem and extension. Dotfiles such as ".clip"
// have no extension.
func splitName(base string) (string, string) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		return base, ""
	}
	return stem, ext
}

// pathExists reports whether path is taken. Only a clean "not exist" counts
// as free; any other Lstat failure is returned.
func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ToolDir returns the directory holding the running executable, which is
// where clips are written unless an output directory is given.
func ToolDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
