package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mgpai22/clipcut/internal/logging"
	"github.com/mgpai22/clipcut/internal/timespec"
	"github.com/mgpai22/clipcut/internal/video"
)

type fakeProcessor struct {
	cuts    []video.CutRequest
	outputs []string
	info    *video.Info
	infoErr error
	cutErr  error
}

func (f *fakeProcessor) Cut(ctx context.Context, req video.CutRequest, outputPath string) error {
	f.cuts = append(f.cuts, req)
	f.outputs = append(f.outputs, outputPath)
	if f.cutErr != nil {
		return f.cutErr
	}
	return os.WriteFile(outputPath, []byte("clip"), 0644)
}

func (f *fakeProcessor) GetInfo(ctx context.Context, videoPath string) (*video.Info, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

type sessionFixture struct {
	session   *cutSession
	processor *fakeProcessor
	out       *strings.Builder
	input     string
	outputDir string
}

func newFixture(t *testing.T, stdin string, opts cutOptions) *sessionFixture {
	t.Helper()

	input := filepath.Join(t.TempDir(), "holiday.mp4")
	if err := os.WriteFile(input, make([]byte, 2048), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	if opts.outputDir == "" {
		opts.outputDir = t.TempDir()
	}

	out := &strings.Builder{}
	processor := &fakeProcessor{infoErr: errors.New("no ffprobe")}
	return &sessionFixture{
		session: &cutSession{
			processor:  processor,
			ffmpegPath: "ffmpeg",
			prompt:     newPrompter(strings.NewReader(stdin), out),
			out:        out,
			log:        logging.NewNop(),
			opts:       opts,
		},
		processor: processor,
		out:       out,
		input:     input,
		outputDir: opts.outputDir,
	}
}

func TestCutInteractiveFlow(t *testing.T) {
	// bad start, good start, end not after start, good end, accept default
	f := newFixture(t, "12a\n45\n30\n0130\n\n", cutOptions{})

	if err := f.session.run(context.Background(), f.input); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	if len(f.processor.cuts) != 1 {
		t.Fatalf("expected 1 cut, got %d", len(f.processor.cuts))
	}
	req := f.processor.cuts[0]
	if req.Start.Seconds() != 45 || req.End.Seconds() != 90 {
		t.Errorf("cut = %d..%d, want 45..90", req.Start.Seconds(), req.End.Seconds())
	}

	wantOut := filepath.Join(f.outputDir, "holiday_45_0130.mp4")
	if f.processor.outputs[0] != wantOut {
		t.Errorf("output = %q, want %q", f.processor.outputs[0], wantOut)
	}

	out := f.out.String()
	for _, want := range []string{
		"File size: 2.0 kB",
		"invalid time format",
		"end time must be greater than start time",
		"Start time: 00:00:45.000",
		"End time: 00:01:30.000",
		"Duration: 00:00:45.000",
		"Output file saved to: " + wantOut,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCutWithFlagsSkipsPrompts(t *testing.T) {
	f := newFixture(t, "", cutOptions{start: "3245", end: "013245", yes: true})

	if err := f.session.run(context.Background(), f.input); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if len(f.processor.cuts) != 1 {
		t.Fatalf("expected 1 cut, got %d", len(f.processor.cuts))
	}
	if got := f.processor.cuts[0].Duration(); got != 3600*time.Second {
		t.Errorf("Duration = %v, want 1h", got)
	}
}

func TestCutFlagErrorsAbort(t *testing.T) {
	tests := []struct {
		name    string
		opts    cutOptions
		wantErr error
	}{
		{"bad start", cutOptions{start: "1234567", end: "10"}, timespec.ErrInvalidFormat},
		{"out of range end", cutOptions{start: "10", end: "9999"}, timespec.ErrOutOfRange},
		{"equal times", cutOptions{start: "100", end: "100"}, timespec.ErrEndNotAfterStart},
		{"end before start", cutOptions{start: "200", end: "100"}, timespec.ErrEndNotAfterStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.yes = true
			f := newFixture(t, "", tt.opts)

			err := f.session.run(context.Background(), f.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(f.processor.cuts) != 0 {
				t.Error("ffmpeg must not run after a validation error")
			}
		})
	}
}

func TestCutMissingInput(t *testing.T) {
	f := newFixture(t, "", cutOptions{start: "1", end: "2", yes: true})

	err := f.session.run(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	if !errors.Is(err, video.ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
	if len(f.processor.cuts) != 0 {
		t.Error("ffmpeg must not run for a missing input")
	}
}

func TestCutDeclined(t *testing.T) {
	f := newFixture(t, "n\n", cutOptions{start: "1", end: "2"})

	if err := f.session.run(context.Background(), f.input); err != nil {
		t.Fatalf("declining must not be an error: %v", err)
	}
	if len(f.processor.cuts) != 0 {
		t.Error("cut ran after the user declined")
	}
	if !strings.Contains(f.out.String(), "Operation cancelled.") {
		t.Errorf("expected cancel message, got:\n%s", f.out.String())
	}
}

func TestCutPromptEOF(t *testing.T) {
	f := newFixture(t, "45\n", cutOptions{})

	err := f.session.run(context.Background(), f.input)
	if !errors.Is(err, errNoAnswer) {
		t.Errorf("expected errNoAnswer, got %v", err)
	}
}

func TestCutDryRun(t *testing.T) {
	f := newFixture(t, "", cutOptions{start: "10", end: "20", dryRun: true})

	if err := f.session.run(context.Background(), f.input); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if len(f.processor.cuts) != 0 {
		t.Error("dry run must not cut")
	}
	out := f.out.String()
	if !strings.Contains(out, "ffmpeg -i "+f.input) || !strings.Contains(out, "-c copy") {
		t.Errorf("dry run should print the command, got:\n%s", out)
	}
}

func TestCutAvoidsExistingOutput(t *testing.T) {
	f := newFixture(t, "", cutOptions{start: "10", end: "20", yes: true})
	taken := filepath.Join(f.outputDir, "holiday_10_20.mp4")
	if err := os.WriteFile(taken, []byte("keep me"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := f.session.run(context.Background(), f.input); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	want := filepath.Join(f.outputDir, "holiday_10_20_1.mp4")
	if f.processor.outputs[0] != want {
		t.Errorf("output = %q, want %q", f.processor.outputs[0], want)
	}
	data, _ := os.ReadFile(taken)
	if string(data) != "keep me" {
		t.Error("existing file was modified")
	}
}

func TestCutProcessorFailure(t *testing.T) {
	f := newFixture(t, "", cutOptions{start: "10", end: "20", yes: true})
	f.processor.cutErr = &video.FFmpegError{ExitCode: 1, Stderr: "boom"}

	err := f.session.run(context.Background(), f.input)
	if !video.IsFFmpegError(err) {
		t.Errorf("expected FFmpegError, got %v", err)
	}
	if strings.Contains(f.out.String(), "Output file saved") {
		t.Error("success message printed after failure")
	}
}

func TestCutPastMediaDurationStillRuns(t *testing.T) {
	f := newFixture(t, "", cutOptions{start: "10", end: "200", yes: true})
	f.processor.infoErr = nil
	f.processor.info = &video.Info{Duration: 60 * time.Second}

	if err := f.session.run(context.Background(), f.input); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if len(f.processor.cuts) != 1 {
		t.Error("a cut past the media end should only warn")
	}
}

func TestShouldWait(t *testing.T) {
	tests := []struct {
		name      string
		flagSet   bool
		flagValue bool
		terminal  bool
		want      bool
	}{
		{"terminal default", false, false, true, true},
		{"piped default", false, false, false, false},
		{"explicit off on terminal", true, false, true, false},
		{"explicit on when piped", true, true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldWait(tt.flagSet, tt.flagValue, tt.terminal); got != tt.want {
				t.Errorf("shouldWait() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTerminalRejectsNonFiles(t *testing.T) {
	if isTerminal(strings.NewReader("")) {
		t.Error("a string reader is not a terminal")
	}

	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if isTerminal(f) {
		t.Error("a regular file is not a terminal")
	}
}

func TestRootRequiresInputFile(t *testing.T) {
	var out strings.Builder
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs([]string{})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	if !errors.Is(err, errNoInputFile) {
		t.Fatalf("expected errNoInputFile, got %v", err)
	}
	if !strings.Contains(out.String(), "Please drag a video file onto clipcut") {
		t.Errorf("expected usage guidance, got:\n%s", out.String())
	}
}
