// Package manifest loads the Snapchat memories export file.
//
// The export is a JSON document whose "Saved Media" key holds an ordered list
// of entries. Each entry carries a download URL plus free-text capture date
// and location strings. The manifest is read once at startup and treated as
// immutable for the rest of the run.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Item is one manifest entry. Field names mirror the export document.
type Item struct {
	MediaDownloadURL string `json:"Media Download Url"`
	Date             string `json:"Date"`
	MediaType        string `json:"Media Type"`
	Location         string `json:"Location"`
}

// DateText returns the trimmed capture date string.
func (i Item) DateText() string {
	return strings.TrimSpace(i.Date)
}

// LocationText returns the raw location string.
func (i Item) LocationText() string {
	return i.Location
}

type export struct {
	SavedMedia []Item `json:"Saved Media"`
}

// Load reads and decodes the export at path. Entries without a download URL
// are dropped; skipped reports how many were removed.
func Load(path string) (items []Item, skipped int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes export JSON bytes.
func Parse(data []byte) (items []Item, skipped int, err error) {
	var doc export
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("parse manifest: %w", err)
	}
	if doc.SavedMedia == nil {
		return nil, 0, fmt.Errorf(`parse manifest: missing "Saved Media" key`)
	}

	items = make([]Item, 0, len(doc.SavedMedia))
	for _, item := range doc.SavedMedia {
		if strings.TrimSpace(item.MediaDownloadURL) == "" {
			skipped++
			continue
		}
		items = append(items, item)
	}
	return items, skipped, nil
}
