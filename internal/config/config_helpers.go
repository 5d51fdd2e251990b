package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/shouni/netarmor/securenet"

	"ap-storybook-web/internal/domain"
)

// GetWorkDir は特定のリクエストに対する一意の作業ディレクトリを返します。
// 例: "output/3f1c29ab-..."
func (c Config) GetWorkDir(requestID string) string {
	return path.Join(c.BaseOutputDir, requestID)
}

// GetImageDir は画像保存用のサブディレクトリパスを返します。
func (c Config) GetImageDir(requestID string) string {
	return path.Join(c.GetWorkDir(requestID), "images")
}

// GetStorageObjectURL は、指定されたパスから完全な GCS オブジェクト URL ("gs://...") を組み立てます。
// c.StorybookBucket が空文字列の場合は引数のパスをそのまま返します。
// これはローカルファイルシステムでの実行など、GCS を使用しないシナリオを想定しています。
func (c Config) GetStorageObjectURL(p string) string {
	if strings.HasPrefix(p, "gs://") {
		return p
	}
	if c.StorybookBucket != "" {
		return fmt.Sprintf("gs://%s/%s", c.StorybookBucket, p)
	}
	return p
}

// --- バリデーション ---

// ValidateEssentialConfig はアプリケーション実行に不可欠な設定を検証します。
// 認証情報の欠落はリクエスト単位のエラーではなく、起動時に即座に失敗させます。
func ValidateEssentialConfig(cfg *Config) error {
	if !IsSecureURL(cfg.ServiceURL) {
		return fmt.Errorf("security error: SERVICE_URL ('%s') must be HTTPS in production", cfg.ServiceURL)
	}

	if cfg.ImageStrategy != StrategyGenerate && cfg.ImageStrategy != StrategyReuse {
		return fmt.Errorf("configuration error: IMAGE_STRATEGY は %q か %q のいずれかにしてください (現在: %q)",
			StrategyGenerate, StrategyReuse, cfg.ImageStrategy)
	}

	// 朗読の認証情報は戦略に関わらず必須
	if cfg.ElevenLabsAPIKey == "" {
		return domain.NewPipelineError(domain.KindConfigurationMissing,
			"ELEVENLABS_API_KEY が設定されていません。朗読音声の生成に必須です")
	}

	// 挿絵の認証情報は直接生成戦略でのみ必須
	if cfg.ImageStrategy == StrategyGenerate && cfg.RunwareAPIKey == "" {
		return domain.NewPipelineError(domain.KindConfigurationMissing,
			"RUNWARE_API_KEY が設定されていません。IMAGE_STRATEGY=generate での挿絵生成に必須です")
	}

	return nil
}

// IsSecureURL は指定された URL が HTTPS または localhost であるか判定します。
func IsSecureURL(rawURL string) bool {
	return securenet.IsSecureServiceURL(rawURL)
}
