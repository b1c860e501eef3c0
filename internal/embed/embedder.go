// Package embed attaches capture metadata to downloaded files.
//
// Each media category gets exactly one treatment: JPEG receives in-file EXIF
// fields, MP4/MOV are remuxed with container tags, archives are left alone,
// and everything else gets a JSON sidecar as an audit trail. PNG, WebP, and
// HEIC are downloaded as-is with no in-band annotation; that asymmetry is a
// documented limitation of the export pipeline, not an accident here.
package embed

import (
	"context"
	"log/slog"

	"github.com/alvesvaren/snapchat-memories-downloader/internal/classify"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/media/ffmpeg"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/metadata"
)

// Request carries everything an embedder needs for one item. Path is the
// downloaded file; Time and Location are nil when the manifest had nothing
// usable for that field.
type Request struct {
	Path         string
	DateText     string
	LocationText string
	Time         *metadata.CaptureTime
	Location     *metadata.Coordinate
}

// Embedder attaches metadata to the file named by a Request. A failed Embed
// must leave the downloaded file untouched.
type Embedder interface {
	Embed(ctx context.Context, req Request) error
}

// ForCategory selects the embedder for a classified payload. A nil return
// means the category takes no embedding step at all (archives, whose
// contents must not be mutated).
func ForCategory(category classify.Category, runner ffmpeg.Runner, logger *slog.Logger) Embedder {
	switch category {
	case classify.JPEG:
		return NewPhotoEmbedder(logger)
	case classify.MP4, classify.MOV:
		return NewVideoEmbedder(runner, logger)
	case classify.Zip:
		return nil
	default:
		return NewSidecarWriter(logger)
	}
}
