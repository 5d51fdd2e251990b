package domain

import (
	"errors"
	"fmt"
)

// ErrorKind は、絵本生成パイプラインが返しうる失敗の閉じた分類です。
// 自由記述のメッセージに情報を埋め込むのではなく、機械可読な種別と
// 構造化されたコンテキストを持ち回り、人間向けの文言は境界でのみ整形します。
type ErrorKind string

const (
	// KindMissingInput は必須の storyText が空であることを表します。利用者が修正可能です。
	KindMissingInput ErrorKind = "missing_input"
	// KindNoScenesFound は本文が1つの有効なシーンにも分割できなかったことを表します。
	KindNoScenesFound ErrorKind = "no_scenes_found"
	// KindConfigurationMissing は必須の認証情報が未設定であることを表します。
	// リクエスト単位ではなく、サービス全体の起動時エラーです。
	KindConfigurationMissing ErrorKind = "configuration_missing"
	// KindAudioGenerationFailed は朗読音声の上流呼び出しが失敗したことを表します。
	KindAudioGenerationFailed ErrorKind = "audio_generation_failed"
	// KindImageGenerationFailed は挿絵の上流呼び出しが失敗したことを表します。
	KindImageGenerationFailed ErrorKind = "image_generation_failed"
	// KindArtifactTooLarge は base64 ペイロードの合計が転送可能な上限を超えたことを表します。
	KindArtifactTooLarge ErrorKind = "artifact_too_large"
)

// PipelineError は、パイプラインの失敗を構造化して表します。
// ページに紐付く失敗では PageIndex (1始まり) が、上流API起因の失敗では
// UpstreamStatus / UpstreamBody が診断用に設定されます。
type PipelineError struct {
	Kind           ErrorKind
	PageIndex      int
	UpstreamStatus int
	UpstreamBody   string
	Message        string
	Err            error
}

func (e *PipelineError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.PageIndex > 0 {
		msg = fmt.Sprintf("%s (page %d)", msg, e.PageIndex)
	}
	if e.UpstreamStatus > 0 {
		msg = fmt.Sprintf("%s (upstream status %d: %s)", msg, e.UpstreamStatus, e.UpstreamBody)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError は種別とメッセージのみを持つ PipelineError を生成します。
func NewPipelineError(kind ErrorKind, message string) *PipelineError {
	return &PipelineError{Kind: kind, Message: message}
}

// AsPipelineError は err の連鎖から PipelineError を取り出します。
func AsPipelineError(err error) (*PipelineError, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// maxUpstreamBodyLen 診断用に保持する上流応答本文の上限
const maxUpstreamBodyLen = 512

// TruncateUpstreamBody は、上流APIの応答本文を診断に十分な長さに切り詰めます。
func TruncateUpstreamBody(body []byte) string {
	s := string(body)
	if len(s) > maxUpstreamBodyLen {
		return s[:maxUpstreamBodyLen]
	}
	return s
}
