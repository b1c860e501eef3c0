package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// writeStub installs a shell script that records its arguments and copies
// the input to the last argument, mimicking a successful remux.
func writeStub(t *testing.T, exitCode int) (binary, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub script requires a POSIX shell")
	}
	dir := t.TempDir()
	binary = filepath.Join(dir, "ffmpeg-stub")
	argsFile = filepath.Join(dir, "args.txt")
	script := `#!/bin/sh
printf '%s\n' "$@" > ` + argsFile + `
if [ ` + strconv.Itoa(exitCode) + ` -ne 0 ]; then
  echo "simulated failure" >&2
  exit ` + strconv.Itoa(exitCode) + `
fi
for last; do :; done
cp "$3" "$last"
`
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return binary, argsFile
}

func TestRemuxBuildsDeterministicCommand(t *testing.T) {
	binary, argsFile := writeStub(t, 0)
	dir := t.TempDir()
	src := filepath.Join(dir, "in.mp4")
	dst := filepath.Join(dir, "out.mp4")
	if err := os.WriteFile(src, []byte("container"), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(binary)
	tags := map[string]string{
		"location":      "+37.100000-122.600000/",
		"creation_time": "2021-06-15T14:30:00Z",
	}
	if err := runner.Remux(context.Background(), src, dst, tags); err != nil {
		t.Fatalf("Remux: %v", err)
	}

	raw, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	args := strings.Split(strings.TrimSpace(string(raw)), "\n")
	want := []string{
		"-y", "-i", src, "-codec", "copy",
		"-metadata", "creation_time=2021-06-15T14:30:00Z",
		"-metadata", "location=+37.100000-122.600000/",
		dst,
	}
	if len(args) != len(want) {
		t.Fatalf("args = %q, want %q", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("arg[%d] = %q, want %q", i, args[i], want[i])
		}
	}

	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("stub should have produced dst: %v", err)
	}
}

func TestRemuxReportsToolFailure(t *testing.T) {
	binary, _ := writeStub(t, 1)
	dir := t.TempDir()
	src := filepath.Join(dir, "in.mp4")
	if err := os.WriteFile(src, []byte("container"), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(binary)
	err := runner.Remux(context.Background(), src, filepath.Join(dir, "out.mp4"), nil)
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "simulated failure") {
		t.Fatalf("error should carry tool output: %v", err)
	}
}

func TestRemuxMissingBinary(t *testing.T) {
	runner := NewRunner(filepath.Join(t.TempDir(), "definitely-not-ffmpeg"))
	if runner.Available() {
		t.Fatal("missing binary reported available")
	}
	err := runner.Remux(context.Background(), "in.mp4", "out.mp4", nil)
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestNewRunnerDefaultsBinary(t *testing.T) {
	if NewRunner("  ").Binary() != "ffmpeg" {
		t.Fatal("empty binary should default to ffmpeg")
	}
}

func TestTailBoundsOutput(t *testing.T) {
	long := strings.Repeat("x", 1000)
	if got := tail(long, 100); len(got) != 103 {
		t.Fatalf("tail length = %d", len(got))
	}
	if got := tail("short", 100); got != "short" {
		t.Fatalf("tail = %q", got)
	}
}
