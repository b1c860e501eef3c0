package embed

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"

	"github.com/alvesvaren/snapchat-memories-downloader/internal/fileutil"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/logging"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/metadata"
)

// gpsVersion is the GPSVersionID written alongside coordinates, EXIF 2.3.
var gpsVersion = []byte{2, 3, 0, 0}

// PhotoEmbedder writes EXIF capture-time and GPS fields into JPEG files.
type PhotoEmbedder struct {
	logger *slog.Logger
}

func NewPhotoEmbedder(logger *slog.Logger) *PhotoEmbedder {
	return &PhotoEmbedder{logger: logging.NewComponentLogger(logger, "photo-embed")}
}

// Embed rewrites the JPEG at req.Path with EXIF metadata. The rewrite goes
// through a temp sibling and a rename, so a decode or encode failure leaves
// the original downloaded bytes in place.
func (e *PhotoEmbedder) Embed(_ context.Context, req Request) error {
	if req.Time == nil && req.Location == nil {
		return nil
	}

	data, err := os.ReadFile(req.Path)
	if err != nil {
		return fmt.Errorf("read jpeg: %w", err)
	}

	annotated, err := annotateJPEG(data, req.Time, req.Location)
	if err != nil {
		return fmt.Errorf("annotate jpeg: %w", err)
	}

	if err := fileutil.WriteFileAtomic(req.Path, annotated, 0o644); err != nil {
		return fmt.Errorf("rewrite jpeg: %w", err)
	}

	e.logger.Debug("embedded exif metadata",
		logging.String(logging.FieldFile, req.Path),
		logging.Bool("has_time", req.Time != nil),
		logging.Bool("has_location", req.Location != nil),
	)
	return nil
}

func annotateJPEG(data []byte, captureTime *metadata.CaptureTime, location *metadata.Coordinate) ([]byte, error) {
	parser := jpegstructure.NewJpegMediaParser()
	intfc, err := parser.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse segments: %w", err)
	}
	segments := intfc.(*jpegstructure.SegmentList)

	rootIb, err := segments.ConstructExifBuilder()
	if err != nil {
		im, mapErr := exifcommon.NewIfdMappingWithStandard()
		if mapErr != nil {
			return nil, fmt.Errorf("ifd mapping: %w", mapErr)
		}
		rootIb = exif.NewIfdBuilder(im, exif.NewTagIndex(), exifcommon.IfdStandardIfdIdentity, exifcommon.EncodeDefaultByteOrder)
	}

	if captureTime != nil {
		if err := setCaptureTime(rootIb, captureTime.EXIFString()); err != nil {
			return nil, err
		}
	}
	if location != nil {
		if err := setGPS(rootIb, *location); err != nil {
			return nil, err
		}
	}

	if err := segments.SetExif(rootIb); err != nil {
		return nil, fmt.Errorf("set exif: %w", err)
	}

	var buf bytes.Buffer
	if err := segments.Write(&buf); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// setCaptureTime stores the same timestamp in the primary block and both
// original/digitized fields, matching how cameras record a fresh capture.
func setCaptureTime(rootIb *exif.IfdBuilder, exifTime string) error {
	rootIfd, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD0")
	if err != nil {
		return fmt.Errorf("ifd0 builder: %w", err)
	}
	if err := rootIfd.SetStandardWithName("DateTime", exifTime); err != nil {
		return fmt.Errorf("set DateTime: %w", err)
	}

	exifIfd, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD/Exif")
	if err != nil {
		return fmt.Errorf("exif ifd builder: %w", err)
	}
	for _, name := range []string{"DateTimeOriginal", "DateTimeDigitized"} {
		if err := exifIfd.SetStandardWithName(name, exifTime); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}

func setGPS(rootIb *exif.IfdBuilder, location metadata.Coordinate) error {
	gpsIfd, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD/GPSInfo")
	if err != nil {
		return fmt.Errorf("gps ifd builder: %w", err)
	}

	latPositive, latDMS := metadata.EncodeDMS(location.Latitude)
	lonPositive, lonDMS := metadata.EncodeDMS(location.Longitude)

	fields := []struct {
		name  string
		value any
	}{
		{"GPSVersionID", gpsVersion},
		{"GPSLatitudeRef", metadata.LatitudeRef(latPositive)},
		{"GPSLatitude", exifRationals(latDMS)},
		{"GPSLongitudeRef", metadata.LongitudeRef(lonPositive)},
		{"GPSLongitude", exifRationals(lonDMS)},
	}
	for _, field := range fields {
		if err := gpsIfd.SetStandardWithName(field.name, field.value); err != nil {
			return fmt.Errorf("set %s: %w", field.name, err)
		}
	}
	return nil
}

func exifRationals(dms metadata.DMS) []exifcommon.Rational {
	out := make([]exifcommon.Rational, 0, 3)
	for _, r := range []metadata.Rational{dms.Degrees, dms.Minutes, dms.Seconds} {
		out = append(out, exifcommon.Rational{Numerator: r.Numerator, Denominator: r.Denominator})
	}
	return out
}
