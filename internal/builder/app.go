package builder

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"ap-storybook-web/internal/adapters"
	"ap-storybook-web/internal/config"
	"ap-storybook-web/internal/domain"
	"ap-storybook-web/internal/media"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext はアプリケーションの依存関係を保持します。
// 各フィールドをインターフェースで定義することで、テストでのモック利用を容易にします。
type AppContext struct {
	Config        config.Config
	Reader        remoteio.InputReader
	Writer        remoteio.OutputWriter
	Voices        domain.VoiceMap
	Media         media.Generator
	ImagePolicy   media.ImagePolicy
	SlackNotifier adapters.SlackNotifier
	HTTPClient    httpkit.ClientInterface

	ioFactory remoteio.IOFactory
}

// BuildAppContext は外部サービスとの接続を確立し、依存関係を組み立てます。
func BuildAppContext(ctx context.Context, cfg config.Config) (*AppContext, error) {
	// 1. 基盤クライアントの初期化
	httpClient := httpkit.New(cfg.HTTPTimeout)

	// 2. I/O インフラ (GCS / ローカル) の初期化
	ioFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS factory: %w", err)
	}
	reader, err := ioFactory.InputReader()
	if err != nil {
		return nil, fmt.Errorf("failed to create input reader: %w", err)
	}
	writer, err := ioFactory.OutputWriter()
	if err != nil {
		return nil, fmt.Errorf("failed to create output writer: %w", err)
	}

	// 3. ボイスマップの読み込み
	voices, err := domain.LoadVoiceMap(ctx, reader, cfg.VoiceMapFile)
	if err != nil {
		return nil, fmt.Errorf("ボイスマップの読み込みに失敗しました (path: %s): %w", cfg.VoiceMapFile, err)
	}

	// 4. メディアクライアントと画像戦略の構築
	gen, policy, err := buildMediaStack(cfg, voices)
	if err != nil {
		return nil, err
	}

	// 5. アダプターの初期化
	slack, err := adapters.NewSlackAdapter(httpClient, cfg.SlackWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Slack adapter: %w", err)
	}

	return &AppContext{
		Config:        cfg,
		Reader:        reader,
		Writer:        writer,
		Voices:        voices,
		Media:         gen,
		ImagePolicy:   policy,
		SlackNotifier: slack,
		HTTPClient:    httpClient,
		ioFactory:     ioFactory,
	}, nil
}

// buildMediaStack は設定に応じたメディア生成器と画像戦略を組み立てます。
// 有効な戦略は配備ごとにちょうど1つで、全ページに一様に適用されます。
func buildMediaStack(cfg config.Config, voices domain.VoiceMap) (media.Generator, media.ImagePolicy, error) {
	// 朗読・挿絵は応答が遅く本文も大きいため、kit 共有クライアントとは別に
	// タイムアウトを独立させた専用クライアントを使います。
	mediaHTTP := &http.Client{Timeout: cfg.HTTPTimeout}

	tts, err := media.NewElevenLabsClient(mediaHTTP, cfg.ElevenLabsBaseURL, cfg.ElevenLabsAPIKey, cfg.TTSModel, voices)
	if err != nil {
		return nil, nil, fmt.Errorf("朗読クライアントの初期化に失敗しました: %w", err)
	}

	switch cfg.ImageStrategy {
	case config.StrategyGenerate:
		img, err := media.NewRunwareClient(mediaHTTP, cfg.RunwareBaseURL, cfg.RunwareAPIKey, cfg.ImageModel)
		if err != nil {
			return nil, nil, fmt.Errorf("挿絵クライアントの初期化に失敗しました: %w", err)
		}
		gen := media.NewRemoteGenerator(tts, img)
		return gen, media.NewGeneratePolicy(gen, cfg.StylePrefix), nil

	case config.StrategyReuse:
		return media.NewRemoteGenerator(tts, nil), media.NewReusePolicy(), nil

	default:
		return nil, nil, fmt.Errorf("未対応の画像戦略です: %s", cfg.ImageStrategy)
	}
}

// Close は、AppContext が保持するすべての外部接続リソースを安全に解放します。
func (a *AppContext) Close() {
	if a.ioFactory != nil {
		if err := a.ioFactory.Close(); err != nil {
			slog.Error("failed to close IOFactory", "error", err)
		}
	}
}
