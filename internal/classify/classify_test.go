package classify

import "testing"

func ftypPayload(brand string) []byte {
	data := []byte{0x00, 0x00, 0x00, 0x18}
	data = append(data, []byte("ftyp")...)
	data = append(data, []byte(brand)...)
	data = append(data, make([]byte, 8)...)
	return data
}

func TestDetectByContentType(t *testing.T) {
	cases := []struct {
		contentType string
		want        Category
		wantExt     string
	}{
		{"image/jpeg", JPEG, "jpg"},
		{"image/jpg", JPEG, "jpg"},
		{"IMAGE/JPEG; charset=binary", JPEG, "jpg"},
		{"image/png", PNG, "png"},
		{"image/webp", WebP, "webp"},
		{"video/mp4", MP4, "mp4"},
		{"video/quicktime", MOV, "mov"},
	}
	for _, tc := range cases {
		got := Detect(tc.contentType, nil)
		if got.Category != tc.want || got.Extension != tc.wantExt {
			t.Errorf("Detect(%q) = %+v, want %s/.%s", tc.contentType, got, tc.want, tc.wantExt)
		}
	}
}

func TestDetectByMagicBytes(t *testing.T) {
	webp := append([]byte("RIFF"), 0x24, 0x00, 0x00, 0x00)
	webp = append(webp, []byte("WEBP")...)

	cases := []struct {
		name    string
		data    []byte
		want    Category
		wantExt string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, JPEG, "jpg"},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, PNG, "png"},
		{"webp", webp, WebP, "webp"},
		{"mp4 isom", ftypPayload("isom"), MP4, "mp4"},
		{"mov", ftypPayload("qt  "), MOV, "mov"},
		{"heic", ftypPayload("heic"), HEIC, "heic"},
		{"heix", ftypPayload("heix"), HEIC, "heic"},
		{"mif1", ftypPayload("mif1"), HEIC, "heic"},
		{"zip", []byte{0x50, 0x4B, 0x03, 0x04, 0x14}, Zip, "zip"},
		{"empty", nil, Unknown, "bin"},
		{"garbage", []byte("hello world"), Unknown, "bin"},
		{"short riff", []byte("RIFF"), Unknown, "bin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Detect("", tc.data)
			if got.Category != tc.want || got.Extension != tc.wantExt {
				t.Fatalf("Detect = %+v, want %s/.%s", got, tc.want, tc.wantExt)
			}
		})
	}
}

func TestContentTypeWinsOverMagic(t *testing.T) {
	// A jpeg payload served as video/mp4 follows the header.
	got := Detect("video/mp4", []byte{0xFF, 0xD8, 0xFF})
	if got.Category != MP4 {
		t.Fatalf("Detect = %+v, want mp4", got)
	}
}

func TestUnknownContentTypeFallsThroughToMagic(t *testing.T) {
	got := Detect("application/octet-stream", []byte{0xFF, 0xD8, 0xFF})
	if got.Category != JPEG {
		t.Fatalf("Detect = %+v, want jpeg", got)
	}
}
