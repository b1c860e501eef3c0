package embed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alvesvaren/snapchat-memories-downloader/internal/fileutil"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/logging"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/media/ffmpeg"
)

// VideoEmbedder attaches container tags to MP4/MOV files through an external
// stream-copy remux. Streams are never re-encoded.
type VideoEmbedder struct {
	runner ffmpeg.Runner
	logger *slog.Logger
}

func NewVideoEmbedder(runner ffmpeg.Runner, logger *slog.Logger) *VideoEmbedder {
	return &VideoEmbedder{
		runner: runner,
		logger: logging.NewComponentLogger(logger, "video-embed"),
	}
}

// Embed remuxes req.Path into a temp sibling with metadata tags, then
// renames it over the original. The rename only happens after the tool exits
// zero and the temp file is verifiably non-empty; any other outcome removes
// the temp file and keeps the original untouched.
func (e *VideoEmbedder) Embed(ctx context.Context, req Request) error {
	tags := e.tags(req)
	if len(tags) == 0 {
		return nil
	}

	tmp := fileutil.TempSibling(req.Path, "remux") + filepath.Ext(req.Path)
	defer func() {
		_ = os.Remove(tmp)
	}()

	if err := e.runner.Remux(ctx, req.Path, tmp, tags); err != nil {
		return err
	}

	info, err := os.Stat(tmp)
	if err != nil {
		return fmt.Errorf("remux output missing: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("remux produced empty output for %s", filepath.Base(req.Path))
	}

	if err := os.Rename(tmp, req.Path); err != nil {
		return fmt.Errorf("replace original: %w", err)
	}

	e.logger.Debug("embedded container tags",
		logging.String(logging.FieldFile, req.Path),
		logging.Int("tags", len(tags)),
	)
	return nil
}

func (e *VideoEmbedder) tags(req Request) map[string]string {
	tags := make(map[string]string, 4)
	if req.Time != nil {
		tags["creation_time"] = req.Time.ISOString()
	}
	if req.DateText != "" || req.LocationText != "" {
		tags["description"] = fmt.Sprintf("Date: %s; Location: %s", req.DateText, req.LocationText)
	}
	if req.Location != nil {
		iso := req.Location.ISO6709()
		tags["com.apple.quicktime.location.ISO6709"] = iso
		tags["location"] = iso
	}
	return tags
}
