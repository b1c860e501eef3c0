package embed

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alvesvaren/snapchat-memories-downloader/internal/logging"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/media/ffmpeg"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/metadata"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/testsupport"
)

func writeVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("original container bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertNoResidue(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if entry.Name() != "clip.mp4" {
			t.Fatalf("unexpected residue in output dir: %s", entry.Name())
		}
	}
}

func TestVideoEmbedderReplacesOriginalOnSuccess(t *testing.T) {
	path := writeVideo(t)
	runner := ffmpeg.NewRunner(testsupport.StubFFmpeg(t, testsupport.StubOK))

	req := Request{
		Path:         path,
		DateText:     "2021-06-15 14:30:00 UTC",
		LocationText: "Latitude, Longitude: 37.1, -122.6",
		Time:         captureTime(t, "2021-06-15 14:30:00 UTC"),
		Location:     &metadata.Coordinate{Latitude: 37.1, Longitude: -122.6},
	}
	if err := NewVideoEmbedder(runner, logging.NewNop()).Embed(context.Background(), req); err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("output missing: %v", err)
	}
	assertNoResidue(t, filepath.Dir(path))
}

func TestVideoEmbedderToolFailureKeepsOriginal(t *testing.T) {
	path := writeVideo(t)
	original, _ := os.ReadFile(path)
	runner := ffmpeg.NewRunner(testsupport.StubFFmpeg(t, testsupport.StubFail))

	req := Request{Path: path, Time: captureTime(t, "2021-06-15 14:30:00 UTC")}
	if err := NewVideoEmbedder(runner, logging.NewNop()).Embed(context.Background(), req); err == nil {
		t.Fatal("expected error for failing tool")
	}

	got, _ := os.ReadFile(path)
	if !bytes.Equal(got, original) {
		t.Fatal("original must survive tool failure")
	}
	assertNoResidue(t, filepath.Dir(path))
}

func TestVideoEmbedderEmptyOutputKeepsOriginal(t *testing.T) {
	path := writeVideo(t)
	original, _ := os.ReadFile(path)
	runner := ffmpeg.NewRunner(testsupport.StubFFmpeg(t, testsupport.StubEmptyOutput))

	req := Request{Path: path, Time: captureTime(t, "2021-06-15 14:30:00 UTC")}
	if err := NewVideoEmbedder(runner, logging.NewNop()).Embed(context.Background(), req); err == nil {
		t.Fatal("expected error for empty remux output")
	}

	got, _ := os.ReadFile(path)
	if !bytes.Equal(got, original) {
		t.Fatal("original must survive empty remux output")
	}
	assertNoResidue(t, filepath.Dir(path))
}

func TestVideoEmbedderMissingBinaryKeepsOriginal(t *testing.T) {
	path := writeVideo(t)
	original, _ := os.ReadFile(path)
	runner := ffmpeg.NewRunner(filepath.Join(t.TempDir(), "no-such-ffmpeg"))

	req := Request{Path: path, Time: captureTime(t, "2021-06-15 14:30:00 UTC")}
	if err := NewVideoEmbedder(runner, logging.NewNop()).Embed(context.Background(), req); err == nil {
		t.Fatal("expected error for missing binary")
	}

	got, _ := os.ReadFile(path)
	if !bytes.Equal(got, original) {
		t.Fatal("original must survive missing binary")
	}
	assertNoResidue(t, filepath.Dir(path))
}

func TestVideoEmbedderNothingToTagIsNoop(t *testing.T) {
	path := writeVideo(t)
	original, _ := os.ReadFile(path)
	// Runner would fail if invoked; a no-tag request must never reach it.
	runner := ffmpeg.NewRunner(filepath.Join(t.TempDir(), "no-such-ffmpeg"))

	if err := NewVideoEmbedder(runner, logging.NewNop()).Embed(context.Background(), Request{Path: path}); err != nil {
		t.Fatalf("Embed: %v", err)
	}

	got, _ := os.ReadFile(path)
	if !bytes.Equal(got, original) {
		t.Fatal("file should be untouched")
	}
}

func TestVideoTags(t *testing.T) {
	e := NewVideoEmbedder(ffmpeg.NewRunner(""), logging.NewNop())

	req := Request{
		DateText:     "2021-06-15 14:30:00 UTC",
		LocationText: "Latitude, Longitude: 37.1, -122.6",
		Time:         captureTime(t, "2021-06-15 14:30:00 UTC"),
		Location:     &metadata.Coordinate{Latitude: 37.1, Longitude: -122.6},
	}
	tags := e.tags(req)

	if tags["creation_time"] != "2021-06-15T14:30:00Z" {
		t.Fatalf("creation_time = %q", tags["creation_time"])
	}
	wantDesc := "Date: 2021-06-15 14:30:00 UTC; Location: Latitude, Longitude: 37.1, -122.6"
	if tags["description"] != wantDesc {
		t.Fatalf("description = %q", tags["description"])
	}
	iso := "+37.100000-122.600000/"
	if tags["com.apple.quicktime.location.ISO6709"] != iso || tags["location"] != iso {
		t.Fatalf("location tags = %q / %q", tags["com.apple.quicktime.location.ISO6709"], tags["location"])
	}
}

func TestVideoTagsDescriptionWithoutCoordinate(t *testing.T) {
	e := NewVideoEmbedder(ffmpeg.NewRunner(""), logging.NewNop())

	tags := e.tags(Request{LocationText: "Somewhere nice"})
	if tags["description"] != "Date: ; Location: Somewhere nice" {
		t.Fatalf("description = %q", tags["description"])
	}
	if _, ok := tags["location"]; ok {
		t.Fatal("no coordinate means no location tag")
	}
	if _, ok := tags["creation_time"]; ok {
		t.Fatal("no capture time means no creation_time tag")
	}
}
