// Package metadata converts the manifest's free-text date and location
// strings into structured capture metadata and encodes coordinates in the
// forms the embedders need (EXIF rationals, ISO6709 strings).
package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	manifestTimeLayout = "2006-01-02 15:04:05"
	exifTimeLayout     = "2006:01:02 15:04:05"
)

// CaptureTime is the parsed capture timestamp of one item, always UTC.
type CaptureTime struct {
	UTC time.Time
}

// EXIFString formats the capture time for EXIF date fields.
func (c CaptureTime) EXIFString() string {
	return c.UTC.Format(exifTimeLayout)
}

// ISOString formats the capture time for container-level creation_time tags.
func (c CaptureTime) ISOString() string {
	return c.UTC.Format("2006-01-02T15:04:05Z")
}

// ParseCaptureTime parses the manifest's "YYYY-MM-DD HH:MM:SS UTC" date text.
// Empty input yields (nil, nil): the item simply has no capture time. A
// malformed value is an error the caller reports and then continues without
// time metadata.
func ParseCaptureTime(dateText string) (*CaptureTime, error) {
	trimmed := strings.TrimSpace(dateText)
	if trimmed == "" {
		return nil, nil
	}
	trimmed = strings.TrimSuffix(trimmed, " UTC")
	parsed, err := time.ParseInLocation(manifestTimeLayout, trimmed, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse capture time %q: %w", dateText, err)
	}
	return &CaptureTime{UTC: parsed}, nil
}

// Coordinate is a decimal-degree geographic point.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

var coordinatePattern = regexp.MustCompile(`Latitude,\s*Longitude:\s*([+\-]?\d+(?:\.\d+)?)\s*,\s*([+\-]?\d+(?:\.\d+)?)`)

// ParseCoordinate extracts a coordinate from the manifest's location text.
// Returns nil when no coordinate is present or when the value is the (0, 0)
// placeholder Snapchat emits for items without location data.
func ParseCoordinate(locationText string) *Coordinate {
	match := coordinatePattern.FindStringSubmatch(locationText)
	if match == nil {
		return nil
	}
	lat, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(match[2], 64)
	if err != nil {
		return nil
	}
	if lat == 0 && lon == 0 {
		return nil
	}
	return &Coordinate{Latitude: lat, Longitude: lon}
}
