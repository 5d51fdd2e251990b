package media

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

// dataURLPrefix はブラウザのアップロードに付く "data:image/...;base64," プレフィックスに一致します。
var dataURLPrefix = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)

// placeholderSVG は決定的に合成されるローカルの代替挿絵です。
// 外部呼び出しを必要とせず、生成が失敗することはありません。
const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="1024" height="1024" viewBox="0 0 1024 1024">` +
	`<rect width="1024" height="1024" fill="#fdf6e3"/>` +
	`<rect x="64" y="64" width="896" height="896" rx="48" fill="none" stroke="#d0b98a" stroke-width="12"/>` +
	`<text x="512" y="540" font-family="serif" font-size="72" fill="#8a6d3b" text-anchor="middle">Storybook</text>` +
	`</svg>`

// PlaceholderImage は代替挿絵の画像バイト列 (SVG) を返します。
func PlaceholderImage() []byte {
	return []byte(placeholderSVG)
}

// StripDataURLPrefix は base64 文字列から data URL プレフィックスを取り除きます。
func StripDataURLPrefix(data string) string {
	return dataURLPrefix.ReplaceAllString(strings.TrimSpace(data), "")
}

// DecodeOriginalImage はアップロードされた元画像の base64 文字列を復号します。
func DecodeOriginalImage(data string) ([]byte, error) {
	raw := StripDataURLPrefix(data)
	img, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("元画像の base64 復号に失敗しました: %w", err)
	}
	return img, nil
}
