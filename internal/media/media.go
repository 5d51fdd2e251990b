package media

import (
	"context"

	"ap-storybook-web/internal/domain"
)

// Generator は、外部生成サービスへの能力インターフェースです。
// パイプラインはこの抽象にのみ依存し、テストではフェイク実装に差し替えます。
type Generator interface {
	// Narrate はテキストの朗読音声（MP3等のバイト列）を生成します。
	Narrate(ctx context.Context, text string) ([]byte, error)
	// Illustrate はプロンプトから挿絵画像のバイト列を生成します。
	Illustrate(ctx context.Context, prompt string) ([]byte, error)
}

// RemoteGenerator は、朗読と挿絵をそれぞれの上流APIに委譲する Generator 実装です。
// reuse 戦略の配備では挿絵クライアントが構築されないため、image は nil になり得ます。
type RemoteGenerator struct {
	tts   *ElevenLabsClient
	image *RunwareClient
}

// NewRemoteGenerator は RemoteGenerator を生成します。image は nil でも構いません。
func NewRemoteGenerator(tts *ElevenLabsClient, image *RunwareClient) *RemoteGenerator {
	return &RemoteGenerator{tts: tts, image: image}
}

func (g *RemoteGenerator) Narrate(ctx context.Context, text string) ([]byte, error) {
	return g.tts.Narrate(ctx, text)
}

func (g *RemoteGenerator) Illustrate(ctx context.Context, prompt string) ([]byte, error) {
	if g.image == nil {
		return nil, domain.NewPipelineError(domain.KindConfigurationMissing,
			"挿絵クライアントが構成されていません (IMAGE_STRATEGY=generate には RUNWARE_API_KEY が必要です)")
	}
	return g.image.Illustrate(ctx, prompt)
}
