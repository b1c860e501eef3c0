package metadata

import (
	"testing"
	"time"
)

func TestParseCaptureTime(t *testing.T) {
	ct, err := ParseCaptureTime("2021-06-15 14:30:00 UTC")
	if err != nil {
		t.Fatalf("ParseCaptureTime: %v", err)
	}
	if ct == nil {
		t.Fatal("expected capture time")
	}
	want := time.Date(2021, 6, 15, 14, 30, 0, 0, time.UTC)
	if !ct.UTC.Equal(want) {
		t.Fatalf("UTC = %v, want %v", ct.UTC, want)
	}
	if got := ct.EXIFString(); got != "2021:06:15 14:30:00" {
		t.Fatalf("EXIFString = %q", got)
	}
	if got := ct.ISOString(); got != "2021-06-15T14:30:00Z" {
		t.Fatalf("ISOString = %q", got)
	}
}

func TestParseCaptureTimeWithoutSuffix(t *testing.T) {
	ct, err := ParseCaptureTime("2021-06-15 14:30:00")
	if err != nil || ct == nil {
		t.Fatalf("ParseCaptureTime = %v, %v", ct, err)
	}
}

func TestParseCaptureTimeEmpty(t *testing.T) {
	ct, err := ParseCaptureTime("   ")
	if err != nil {
		t.Fatalf("empty input should not error: %v", err)
	}
	if ct != nil {
		t.Fatalf("expected nil capture time, got %v", ct)
	}
}

func TestParseCaptureTimeMalformed(t *testing.T) {
	ct, err := ParseCaptureTime("not-a-date")
	if err == nil {
		t.Fatal("expected error")
	}
	if ct != nil {
		t.Fatalf("expected nil capture time, got %v", ct)
	}
}

func TestParseCoordinate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  *Coordinate
	}{
		{
			name:  "plain",
			input: "Latitude, Longitude: 37.1, -122.6",
			want:  &Coordinate{Latitude: 37.1, Longitude: -122.6},
		},
		{
			name:  "explicit plus",
			input: "Some place / Latitude, Longitude: +48.8584, +2.2945",
			want:  &Coordinate{Latitude: 48.8584, Longitude: 2.2945},
		},
		{
			name:  "integers",
			input: "Latitude, Longitude: 10, 20",
			want:  &Coordinate{Latitude: 10, Longitude: 20},
		},
		{
			name:  "null island sentinel",
			input: "Latitude, Longitude: 0.0, 0.0",
			want:  nil,
		},
		{
			name:  "no coordinate",
			input: "Somewhere nice",
			want:  nil,
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseCoordinate(tc.input)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected coordinate, got nil")
			}
			if got.Latitude != tc.want.Latitude || got.Longitude != tc.want.Longitude {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParseCoordinateZeroLatitudeOnly(t *testing.T) {
	// Only the exact (0, 0) pair is a sentinel; a zero on one axis is real.
	got := ParseCoordinate("Latitude, Longitude: 0.0, 12.5")
	if got == nil || got.Latitude != 0 || got.Longitude != 12.5 {
		t.Fatalf("got %+v", got)
	}
}
