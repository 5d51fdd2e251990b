package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"ap-storybook-web/internal/domain"
)

const (
	// DefaultRunwareBaseURL は Runware API の標準エンドポイントです。
	DefaultRunwareBaseURL = "https://api.runware.ai/v1"
	// DefaultImageModel 童話調の挿絵向けデフォルトモデル
	DefaultImageModel = "runware:101@1"

	// illustrationSize 挿絵は正方形の固定サイズで生成します。
	illustrationSize = 1024

	taskTypeImageInference = "imageInference"
	outputTypeBase64       = "base64Data"

	// defaultNegativePrompt 子供向け絵本として不適切な要素と、
	// 画像内への文字・透かしの混入を抑止する否定プロンプト
	defaultNegativePrompt = "scary, frightening, horror, violence, gore, weapons, adult content, " +
		"text, letters, captions, subtitles, watermark, signature, logo"
)

// imageTask は画像生成APIへ送る明示的なタスク構造です。
type imageTask struct {
	TaskType       string `json:"taskType"`
	TaskUUID       string `json:"taskUUID"`
	PositivePrompt string `json:"positivePrompt"`
	NegativePrompt string `json:"negativePrompt"`
	Model          string `json:"model"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	NumberResults  int    `json:"numberResults"`
	OutputType     string `json:"outputType"`
	OutputFormat   string `json:"outputFormat"`
}

// imageTaskResult は画像生成APIの応答1件分です。
type imageTaskResult struct {
	TaskType        string `json:"taskType"`
	TaskUUID        string `json:"taskUUID"`
	ImageBase64Data string `json:"imageBase64Data"`
}

type imageAPIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// imageAPIResponse は画像生成APIの応答全体です。
// 境界でフィールドの有無を検証し、不正な応答はパイプラインへ入れません。
type imageAPIResponse struct {
	Data   []imageTaskResult `json:"data"`
	Errors []imageAPIError   `json:"errors"`
}

// RunwareClient は、Runware のタスク型 JSON API を呼び出す挿絵クライアントです。
type RunwareClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewRunwareClient は挿絵クライアントを生成します。
func NewRunwareClient(httpClient *http.Client, baseURL, apiKey, model string) (*RunwareClient, error) {
	if apiKey == "" {
		return nil, domain.NewPipelineError(domain.KindConfigurationMissing, "RUNWARE_API_KEY が設定されていません")
	}
	if baseURL == "" {
		baseURL = DefaultRunwareBaseURL
	}
	if model == "" {
		model = DefaultImageModel
	}
	return &RunwareClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
	}, nil
}

// Illustrate はプロンプトから挿絵を1枚生成し、画像のバイト列を返します。
// 出力は正方形 (1024x1024) の PNG に固定し、否定プロンプトで
// 恐怖・暴力・成人向け表現と文字・透かしの混入を抑止します。
func (c *RunwareClient) Illustrate(ctx context.Context, prompt string) ([]byte, error) {
	tasks := []imageTask{{
		TaskType:       taskTypeImageInference,
		TaskUUID:       uuid.NewString(),
		PositivePrompt: prompt,
		NegativePrompt: defaultNegativePrompt,
		Model:          c.model,
		Width:          illustrationSize,
		Height:         illustrationSize,
		NumberResults:  1,
		OutputType:     outputTypeBase64,
		OutputFormat:   "PNG",
	}}

	body, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("挿絵リクエストのシリアライズに失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("挿絵リクエストの構築に失敗しました: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.PipelineError{
			Kind:    domain.KindImageGenerationFailed,
			Message: "挿絵サービスへの接続に失敗しました",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, &domain.PipelineError{
			Kind:           domain.KindImageGenerationFailed,
			UpstreamStatus: resp.StatusCode,
			UpstreamBody:   domain.TruncateUpstreamBody(errBody),
			Message:        "挿絵サービスがエラーを返しました",
		}
	}

	var payload imageAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &domain.PipelineError{
			Kind:    domain.KindImageGenerationFailed,
			Message: "挿絵サービスの応答をパースできませんでした",
			Err:     err,
		}
	}
	if len(payload.Errors) > 0 {
		return nil, &domain.PipelineError{
			Kind:           domain.KindImageGenerationFailed,
			UpstreamStatus: resp.StatusCode,
			UpstreamBody:   payload.Errors[0].Message,
			Message:        "挿絵サービスがタスクエラーを返しました",
		}
	}
	if len(payload.Data) == 0 || payload.Data[0].ImageBase64Data == "" {
		return nil, &domain.PipelineError{
			Kind:           domain.KindImageGenerationFailed,
			UpstreamStatus: resp.StatusCode,
			Message:        "挿絵サービスが画像データを返しませんでした",
		}
	}

	img, err := base64.StdEncoding.DecodeString(payload.Data[0].ImageBase64Data)
	if err != nil {
		return nil, &domain.PipelineError{
			Kind:    domain.KindImageGenerationFailed,
			Message: "挿絵データの base64 復号に失敗しました",
			Err:     err,
		}
	}
	return img, nil
}
