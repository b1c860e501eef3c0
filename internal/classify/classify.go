// Package classify determines a downloaded payload's media category from the
// response content type and, failing that, the leading bytes of the payload.
package classify

import (
	"bytes"
	"strings"
)

// Category identifies the media family of a downloaded payload.
type Category string

const (
	JPEG    Category = "jpeg"
	PNG     Category = "png"
	WebP    Category = "webp"
	MP4     Category = "mp4"
	MOV     Category = "mov"
	HEIC    Category = "heic"
	Zip     Category = "zip"
	Unknown Category = "unknown"
)

// File pairs a category with the filename extension used for output.
type File struct {
	Category  Category
	Extension string
}

var mimeTable = map[string]File{
	"image/jpeg":      {JPEG, "jpg"},
	"image/jpg":       {JPEG, "jpg"},
	"image/png":       {PNG, "png"},
	"image/webp":      {WebP, "webp"},
	"video/mp4":       {MP4, "mp4"},
	"video/quicktime": {MOV, "mov"},
}

var heicBrands = map[string]struct{}{
	"heic": {},
	"heix": {},
	"hevc": {},
	"hevx": {},
	"mif1": {},
}

// Detect classifies a payload. The content type hint wins when it names a
// known MIME type; otherwise the payload's magic bytes decide. Unmatched
// input degrades to Unknown rather than erroring.
func Detect(contentType string, data []byte) File {
	if mime := normalizeMIME(contentType); mime != "" {
		if file, ok := mimeTable[mime]; ok {
			return file
		}
	}
	return sniff(data)
}

func normalizeMIME(contentType string) string {
	mime, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mime))
}

func sniff(data []byte) File {
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return File{JPEG, "jpg"}
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}):
		return File{PNG, "png"}
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return File{WebP, "webp"}
	case len(data) >= 8 && bytes.Equal(data[4:8], []byte("ftyp")):
		return classifyFtyp(data)
	case len(data) >= 8 && data[0] == 0x00 && data[1] == 0x00 && bytes.Equal(data[4:8], []byte("ftyp")):
		// Alternate box-size encoding; brand inspection does not apply.
		return File{MP4, "mp4"}
	case bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x03, 0x04}):
		return File{Zip, "zip"}
	default:
		return File{Unknown, "bin"}
	}
}

func classifyFtyp(data []byte) File {
	if len(data) < 12 {
		return File{MP4, "mp4"}
	}
	brand := string(data[8:12])
	if _, ok := heicBrands[brand]; ok {
		return File{HEIC, "heic"}
	}
	if brand == "qt  " {
		return File{MOV, "mov"}
	}
	return File{MP4, "mp4"}
}
