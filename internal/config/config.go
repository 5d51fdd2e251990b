package config

import (
	"os"
	"path"
	"strconv"
	"time"

	"github.com/shouni/go-utils/envutil"

	"ap-storybook-web/internal/media"
)

const (
	// DefaultHTTPTimeout 朗読・挿絵生成の応答の遅さを考慮したタイムアウト
	DefaultHTTPTimeout = 60 * time.Second
	// DefaultRateInterval 上流APIへのシーン単位呼び出しの最小間隔
	DefaultRateInterval = 5 * time.Second
	// DefaultMaxArtifactBytes base64 ペイロード合計の上限。これを超える絵本は
	// レスポンスのシリアライズ段階で転送層を壊すため、手前で拒否します。
	DefaultMaxArtifactBytes = int64(48 << 20)
	DefaultVoiceMapFile     = "internal/config/voices.json"
	// DefaultStylePrefix 全ページの挿絵プロンプトに前置する固定のスタイル指示
	DefaultStylePrefix = "Children's storybook illustration, warm and friendly, soft pastel colors, gentle lighting, whimsical picture book art. "

	// StrategyGenerate は全ページの挿絵を上流から取得する直接生成戦略です。
	StrategyGenerate = "generate"
	// StrategyReuse は最終ページに元画像を再利用し、他ページをプレースホルダーで埋める戦略です。
	StrategyReuse = "reuse"
)

// Config は環境変数から読み込まれたアプリケーションの全設定を保持します。
type Config struct {
	ServiceURL string
	Port       string

	// Narration (ElevenLabs)
	ElevenLabsAPIKey  string
	ElevenLabsBaseURL string
	TTSModel          string
	VoiceMapFile      string

	// Illustration (Runware)
	RunwareAPIKey  string
	RunwareBaseURL string
	ImageModel     string
	ImageStrategy  string
	StylePrefix    string

	// Artifact archive
	StorybookBucket string // 成果物を保存するバケット。空ならローカルパスに保存
	BaseOutputDir   string // バケット内（またはローカル）のベースルート (例: "output")

	SlackWebhookURL  string
	MaxArtifactBytes int64
	HTTPTimeout      time.Duration
	RateInterval     time.Duration
	ShutdownTimeout  time.Duration
}

// LoadConfig は環境変数から設定を読み込み、Config 構造体を生成します。
func LoadConfig() *Config {
	// 実行環境（Cloud Run, ko）に応じたパスの解決
	baseDir := "."
	if os.Getenv("KO_DATA_PATH") != "" || os.Getenv("K_SERVICE") != "" {
		baseDir = "/app"
	}
	voiceMap := envutil.GetEnv("VOICE_MAP_FILE", path.Join(baseDir, DefaultVoiceMapFile))

	return &Config{
		ServiceURL: envutil.GetEnv("SERVICE_URL", "http://localhost:8080"),
		Port:       envutil.GetEnv("PORT", "8080"),

		ElevenLabsAPIKey:  envutil.GetEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsBaseURL: envutil.GetEnv("ELEVENLABS_BASE_URL", media.DefaultElevenLabsBaseURL),
		TTSModel:          envutil.GetEnv("ELEVENLABS_MODEL", media.DefaultTTSModel),
		VoiceMapFile:      voiceMap,

		RunwareAPIKey:  envutil.GetEnv("RUNWARE_API_KEY", ""),
		RunwareBaseURL: envutil.GetEnv("RUNWARE_BASE_URL", media.DefaultRunwareBaseURL),
		ImageModel:     envutil.GetEnv("RUNWARE_MODEL", media.DefaultImageModel),
		ImageStrategy:  envutil.GetEnv("IMAGE_STRATEGY", StrategyGenerate),
		StylePrefix:    envutil.GetEnv("IMAGE_STYLE_PREFIX", DefaultStylePrefix),

		StorybookBucket: envutil.GetEnv("STORYBOOK_BUCKET", ""),
		BaseOutputDir:   envutil.GetEnv("BASE_OUTPUT_DIR", "output"),

		SlackWebhookURL:  envutil.GetEnv("SLACK_WEBHOOK_URL", ""),
		MaxArtifactBytes: getEnvInt64("MAX_ARTIFACT_BYTES", DefaultMaxArtifactBytes),
		HTTPTimeout:      DefaultHTTPTimeout,
		RateInterval:     DefaultRateInterval,
		ShutdownTimeout:  15 * time.Second,
	}
}

func getEnvInt64(key string, fallback int64) int64 {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
