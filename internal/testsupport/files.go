// Package testsupport provides fixtures shared by pipeline and embedder
// tests: a real decodable JPEG payload and stub ffmpeg scripts.
package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// JPEGBytes returns a small valid JPEG payload without EXIF data.
func JPEGBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode fixture jpeg: %v", err)
	}
	return buf.Bytes()
}

// StubFFmpegMode selects stub behavior.
type StubFFmpegMode int

const (
	// StubOK copies the input to the output path like a successful remux.
	StubOK StubFFmpegMode = iota
	// StubFail exits non-zero without producing output.
	StubFail
	// StubEmptyOutput exits zero but leaves a zero-byte output file.
	StubEmptyOutput
)

// StubFFmpeg writes a shell script standing in for the remux binary and
// returns its path.
func StubFFmpeg(t *testing.T, mode StubFFmpegMode) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub script requires a POSIX shell")
	}

	var body string
	switch mode {
	case StubOK:
		body = `#!/bin/sh
for last; do :; done
cp "$3" "$last"
`
	case StubFail:
		body = `#!/bin/sh
echo "stub remux failure" >&2
exit 1
`
	case StubEmptyOutput:
		body = `#!/bin/sh
for last; do :; done
: > "$last"
`
	}

	path := filepath.Join(t.TempDir(), "ffmpeg-stub")
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	return path
}
