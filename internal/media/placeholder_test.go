package media

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func TestStripDataURLPrefix(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("image-bytes"))

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"PNGのdata URLプレフィックスを除去する", "data:image/png;base64," + encoded, encoded},
		{"SVGのdata URLプレフィックスを除去する", "data:image/svg+xml;base64," + encoded, encoded},
		{"プレフィックスのない文字列はそのまま", encoded, encoded},
		{"前後の空白は除去される", "  " + encoded + "  ", encoded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripDataURLPrefix(tc.in); got != tc.want {
				t.Errorf("StripDataURLPrefix(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecodeOriginalImage(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G'}
	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	img, err := DecodeOriginalImage(encoded)
	if err != nil {
		t.Fatalf("DecodeOriginalImage failed: %v", err)
	}
	if !bytes.Equal(img, raw) {
		t.Errorf("decoded bytes mismatch: %v", img)
	}

	if _, err := DecodeOriginalImage("not-valid-base64!!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}
