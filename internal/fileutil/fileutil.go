// Package fileutil holds the small filesystem disciplines the pipeline
// relies on: atomic writes, collision-free naming, and timestamp alignment.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WriteFileAtomic writes data to path via a uniquely named sibling temp file
// and a rename, so a crash mid-write never leaves a truncated file at path.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	tmp := TempSibling(path, "part")
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, mode)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// TempSibling returns a unique dot-prefixed path in the same directory as
// path, so a later rename stays on one filesystem.
func TempSibling(path, label string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.%s", base, uuid.NewString(), label))
}

// NumberedVariant returns path unchanged for n = 0 and "name (n).ext"
// otherwise. Callers walk n upward to find a collision-free output name;
// two memories captured in the same second would otherwise silently
// overwrite each other.
func NumberedVariant(path string, n int) string {
	if n <= 0 {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s (%d)%s", stem, n, ext)
}

// Exists reports whether anything is present at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// TouchTimes sets both access and modification time of path to ts.
func TouchTimes(path string, ts time.Time) error {
	return os.Chtimes(path, ts, ts)
}
