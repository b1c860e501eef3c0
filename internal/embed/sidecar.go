package embed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alvesvaren/snapchat-memories-downloader/internal/fileutil"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/logging"
)

// SidecarWriter records the raw manifest strings in a JSON document next to
// files the system cannot annotate in-band. No parsing, no guarantees beyond
// an audit trail.
type SidecarWriter struct {
	logger *slog.Logger
}

func NewSidecarWriter(logger *slog.Logger) *SidecarWriter {
	return &SidecarWriter{logger: logging.NewComponentLogger(logger, "sidecar")}
}

type sidecarDoc struct {
	Date     string `json:"date"`
	Location string `json:"location"`
}

// Embed writes <path>.json beside the primary file.
func (w *SidecarWriter) Embed(_ context.Context, req Request) error {
	doc := sidecarDoc{Date: req.DateText, Location: req.LocationText}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}
	data = append(data, '\n')

	sidecarPath := req.Path + ".json"
	if err := fileutil.WriteFileAtomic(sidecarPath, data, 0o644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}

	w.logger.Debug("wrote sidecar", logging.String(logging.FieldFile, sidecarPath))
	return nil
}
