// Package ffmpeg wraps the external stream-copy remux invocation.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// Runner invokes a configured ffmpeg binary. The binary path is resolved
// once by the caller assembling the pipeline; the runner holds no other
// state and is safe for concurrent use.
type Runner struct {
	binary string
}

// NewRunner creates a runner for the given binary. An empty value falls back
// to "ffmpeg" on PATH.
func NewRunner(binary string) Runner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return Runner{binary: binary}
}

// Binary returns the resolved binary name.
func (r Runner) Binary() string {
	return r.binary
}

// Available reports whether the binary can be resolved on this host.
func (r Runner) Available() bool {
	_, err := exec.LookPath(r.binary)
	return err == nil
}

// Remux copies every stream of src into dst unchanged while attaching the
// given container tags. Tags are applied in sorted key order so the command
// line is reproducible. The caller owns dst cleanup on failure.
func (r Runner) Remux(ctx context.Context, src, dst string, tags map[string]string) error {
	src = strings.TrimSpace(src)
	dst = strings.TrimSpace(dst)
	if src == "" || dst == "" {
		return errors.New("ffmpeg remux: empty source or destination path")
	}

	args := []string{"-y", "-i", src, "-codec", "copy"}
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args = append(args, "-metadata", key+"="+tags[key])
	}
	args = append(args, dst)

	cmd := exec.CommandContext(ctx, r.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg remux: %w: %s", err, tail(string(output), 400))
	}
	return nil
}

// tail keeps error messages bounded; ffmpeg is chatty on stderr.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
