package media

import (
	"context"
	"unicode/utf8"
)

// maxPromptSceneLen プロンプトに取り込むシーン本文の上限（文字数）
const maxPromptSceneLen = 200

// ImagePolicy は、ページ画像の取得戦略です。
// 1回の配備につきちょうど1つの戦略が有効で、同一の絵本内の全ページに
// 一様に適用されます。ページ単位での戦略の切り替えは行いません。
type ImagePolicy interface {
	// PageImage は pageNum (1始まり) のページに載せる画像バイト列を返します。
	PageImage(ctx context.Context, pageNum, totalPages int, sceneText string, originalImage []byte) ([]byte, error)
	// Name は設定値と対応する戦略名を返します。
	Name() string
}

// GeneratePolicy は、全ページの挿絵を毎回上流から取得する直接生成戦略です。
// プロンプトは固定のスタイル指示にシーン本文の先頭 200 文字を連結して組み立てます。
type GeneratePolicy struct {
	gen         Generator
	stylePrefix string
}

// NewGeneratePolicy は直接生成戦略を生成します。
func NewGeneratePolicy(gen Generator, stylePrefix string) *GeneratePolicy {
	return &GeneratePolicy{gen: gen, stylePrefix: stylePrefix}
}

func (p *GeneratePolicy) Name() string { return "generate" }

func (p *GeneratePolicy) PageImage(ctx context.Context, pageNum, totalPages int, sceneText string, _ []byte) ([]byte, error) {
	return p.gen.Illustrate(ctx, p.stylePrefix+truncateRunes(sceneText, maxPromptSceneLen))
}

// ReusePolicy は、最終ページにユーザー提供の元画像を載せ、それ以外の
// ページにはローカル合成のプレースホルダーを使う再利用戦略です。
// 外部呼び出しを行わないため、この戦略での画像取得が失敗することはありません。
type ReusePolicy struct{}

// NewReusePolicy は再利用戦略を生成します。
func NewReusePolicy() *ReusePolicy { return &ReusePolicy{} }

func (p *ReusePolicy) Name() string { return "reuse" }

func (p *ReusePolicy) PageImage(_ context.Context, pageNum, totalPages int, _ string, originalImage []byte) ([]byte, error) {
	if pageNum == totalPages && len(originalImage) > 0 {
		return originalImage, nil
	}
	return PlaceholderImage(), nil
}

// truncateRunes は文字（rune）単位で安全に先頭 n 文字へ切り詰めます。
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
