package media

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"

	"ap-storybook-web/internal/domain"
)

const (
	// DefaultElevenLabsBaseURL は ElevenLabs API の標準エンドポイントです。
	DefaultElevenLabsBaseURL = "https://api.elevenlabs.io"
	// DefaultTTSModel 多言語の童話文を想定した安全なデフォルトモデル
	DefaultTTSModel = "eleven_multilingual_v2"

	narrationCacheExpiration = 30 * time.Minute
	narrationCacheCleanup    = 1 * time.Hour
)

// ttsRequest は朗読APIへ送る明示的なリクエスト構造です。
type ttsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// ElevenLabsClient は、ElevenLabs のストリーミング TTS エンドポイントを呼び出す朗読クライアントです。
// 同一テキストの再生成による課金を避けるため、結果を voice ID とテキストのハッシュでキャッシュします。
type ElevenLabsClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	voices     domain.VoiceMap
	audioCache *cache.Cache
}

// NewElevenLabsClient は朗読クライアントを生成します。
// ボイスマップには Narrator のエントリが必須です。
func NewElevenLabsClient(httpClient *http.Client, baseURL, apiKey, model string, voices domain.VoiceMap) (*ElevenLabsClient, error) {
	if apiKey == "" {
		return nil, domain.NewPipelineError(domain.KindConfigurationMissing, "ELEVENLABS_API_KEY が設定されていません")
	}
	if err := voices.Validate(); err != nil {
		return nil, fmt.Errorf("ボイスマップの検証に失敗しました: %w", err)
	}
	if baseURL == "" {
		baseURL = DefaultElevenLabsBaseURL
	}
	if model == "" {
		model = DefaultTTSModel
	}
	return &ElevenLabsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		voices:     voices,
		audioCache: cache.New(narrationCacheExpiration, narrationCacheCleanup),
	}, nil
}

// Narrate はシーン本文を Narrator の声で朗読した音声バイト列を返します。
// 上流が非2xxを返した場合、および応答が空の場合は KindAudioGenerationFailed で失敗します。
func (c *ElevenLabsClient) Narrate(ctx context.Context, text string) ([]byte, error) {
	voiceID := c.voices.Resolve(domain.NarratorSpeaker)

	key := narrationCacheKey(voiceID, text)
	if cached, ok := c.audioCache.Get(key); ok {
		return cached.([]byte), nil
	}

	body, err := json.Marshal(ttsRequest{Text: text, ModelID: c.model})
	if err != nil {
		return nil, fmt.Errorf("朗読リクエストのシリアライズに失敗しました: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s/stream", c.baseURL, url.PathEscape(voiceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("朗読リクエストの構築に失敗しました: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.PipelineError{
			Kind:    domain.KindAudioGenerationFailed,
			Message: "朗読サービスへの接続に失敗しました",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, &domain.PipelineError{
			Kind:           domain.KindAudioGenerationFailed,
			UpstreamStatus: resp.StatusCode,
			UpstreamBody:   domain.TruncateUpstreamBody(errBody),
			Message:        "朗読サービスがエラーを返しました",
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.PipelineError{
			Kind:    domain.KindAudioGenerationFailed,
			Message: "朗読音声の読み取りに失敗しました",
			Err:     err,
		}
	}
	if len(audio) == 0 {
		return nil, &domain.PipelineError{
			Kind:           domain.KindAudioGenerationFailed,
			UpstreamStatus: resp.StatusCode,
			Message:        "朗読サービスが空の応答を返しました",
		}
	}

	c.audioCache.Set(key, audio, cache.DefaultExpiration)
	return audio, nil
}

func narrationCacheKey(voiceID, text string) string {
	h := sha256.Sum256([]byte(voiceID + "\x00" + text))
	return hex.EncodeToString(h[:])
}
