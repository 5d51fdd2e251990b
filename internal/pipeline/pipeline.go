package pipeline

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/google/uuid"
	"github.com/shouni/go-utils/urlpath"

	"ap-storybook-web/internal/builder"
	"ap-storybook-web/internal/domain"
	"ap-storybook-web/internal/media"
	"ap-storybook-web/internal/story"
)

// maxConcurrentScenes シーン単位の生成を並行して走らせる上限。
// 上流APIのレート制約に合わせ、rate.Limiter と組で流量を抑えます。
const maxConcurrentScenes = 2

// StorybookPipeline は本文の分割からメディア生成、結果の組み立てまでを統括します。
type StorybookPipeline struct {
	appCtx *builder.AppContext
}

func NewStorybookPipeline(appCtx *builder.AppContext) *StorybookPipeline {
	return &StorybookPipeline{appCtx: appCtx}
}

// Assemble は物語本文から絵本を組み立てます。
//
// シーンごとの朗読と挿絵は並行して生成されますが、結果はインデックスで
// 固定位置に書き込むため、ページ順は常に本文中の出現順と一致します。
// いずれかのシーンが失敗した時点で残りは打ち切られ、部分的な絵本は返しません。
func (p *StorybookPipeline) Assemble(ctx context.Context, req domain.GenerateStorybookRequest) (*domain.Storybook, error) {
	cfg := p.appCtx.Config
	requestID := uuid.NewString()
	log := slog.With("request_id", requestID)

	// 本文の欠落と「本文はあるがシーンが無い」は区別します。
	// 空白のみの本文は後者で、分割結果が空になることで検出されます。
	if req.StoryText == "" {
		return nil, domain.NewPipelineError(domain.KindMissingInput, "物語の本文が空です。storyText を指定してください。")
	}

	scenes := story.SplitScenes(req.StoryText)
	if len(scenes) == 0 {
		return nil, domain.NewPipelineError(domain.KindNoScenesFound,
			"本文からシーンを抽出できませんでした。シーンは空行（連続する改行）で区切ってください。")
	}

	var originalImage []byte
	if req.OriginalImageData != "" {
		decoded, err := media.DecodeOriginalImage(req.OriginalImageData)
		if err != nil {
			return nil, domain.NewPipelineError(domain.KindMissingInput,
				fmt.Sprintf("originalImageData のデコードに失敗しました: %v", err))
		}
		originalImage = decoded
	}

	log.Info("📖 絵本の生成を開始します。", "total_scenes", len(scenes), "strategy", p.appCtx.ImagePolicy.Name())

	pages := make([]domain.Page, len(scenes))
	limiter := rate.NewLimiter(rate.Every(cfg.RateInterval), maxConcurrentScenes)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentScenes)

	for i, scene := range scenes {
		eg.Go(func() error {
			if err := limiter.Wait(egCtx); err != nil {
				return err
			}
			page, err := p.buildPage(egCtx, i+1, len(scenes), scene, originalImage)
			if err != nil {
				return withPageIndex(err, i+1)
			}
			pages[i] = page
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		log.Error("絵本の生成に失敗しました。", "error", err)
		p.notifyError(ctx, requestID, err, len(scenes))
		return nil, err
	}

	book := &domain.Storybook{
		Success:    true,
		TotalPages: len(pages),
		Pages:      pages,
	}

	if err := p.checkArtifactSize(book); err != nil {
		log.Error("生成物がサイズ上限を超過しました。", "error", err)
		p.notifyError(ctx, requestID, err, len(scenes))
		return nil, err
	}

	// アーカイブと通知は副次的な成果物であり、失敗しても絵本自体は返します。
	p.archiveAndNotify(ctx, requestID, book)

	log.Info("✅ 絵本の生成が完了しました。", "total_pages", book.TotalPages)
	return book, nil
}

// buildPage は1シーン分の朗読と挿絵を生成し、ページを組み立てます。
func (p *StorybookPipeline) buildPage(ctx context.Context, pageNum, totalPages int, scene string, originalImage []byte) (domain.Page, error) {
	lines := story.ParseSceneLines(scene)
	if len(lines) == 0 {
		lines = []domain.DialogueLine{{Speaker: domain.NarratorSpeaker, Text: scene}}
	}

	audio, err := p.appCtx.Media.Narrate(ctx, scene)
	if err != nil {
		return domain.Page{}, err
	}

	image, err := p.appCtx.ImagePolicy.PageImage(ctx, pageNum, totalPages, scene, originalImage)
	if err != nil {
		return domain.Page{}, err
	}

	slog.Debug("ページを生成しました。", "page", pageNum, "audio_bytes", len(audio), "image_bytes", len(image))

	return domain.Page{
		Page:        pageNum,
		Text:        scene,
		Lines:       lines,
		AudioBase64: base64.StdEncoding.EncodeToString(audio),
		ImageBase64: base64.StdEncoding.EncodeToString(image),
	}, nil
}

// checkArtifactSize は base64 ペイロードの合計が設定上限内に収まるかを検証します。
func (p *StorybookPipeline) checkArtifactSize(book *domain.Storybook) error {
	var total int64
	for _, page := range book.Pages {
		total += int64(len(page.AudioBase64)) + int64(len(page.ImageBase64))
	}
	if total > p.appCtx.Config.MaxArtifactBytes {
		perr := domain.NewPipelineError(domain.KindArtifactTooLarge,
			fmt.Sprintf("生成された絵本が大きすぎます (%d bytes > 上限 %d bytes)。シーン数を減らすか、本文を短くしてください。",
				total, p.appCtx.Config.MaxArtifactBytes))
		return perr
	}
	return nil
}

// archiveAndNotify は成果物をストレージに保存し、Slack へ完了を通知します。
// ベストエフォートで実行され、失敗はログに残すのみです。
func (p *StorybookPipeline) archiveAndNotify(ctx context.Context, requestID string, book *domain.Storybook) {
	cfg := p.appCtx.Config
	workDir := cfg.GetWorkDir(requestID)

	bookPath, err := urlpath.ResolvePath(workDir, "storybook.json")
	if err != nil {
		slog.Warn("絵本JSONの出力パス解決に失敗しました。", "dir", workDir, "error", err)
	} else if err := p.writeJSON(ctx, bookPath, book); err != nil {
		slog.Warn("絵本JSONの保存に失敗しました。", "path", bookPath, "error", err)
	}

	imageBase, err := urlpath.ResolvePath(cfg.GetImageDir(requestID), "page.png")
	if err != nil {
		slog.Warn("挿絵の出力パス解決に失敗しました。", "dir", cfg.GetImageDir(requestID), "error", err)
	} else {
		for _, page := range book.Pages {
			raw, err := base64.StdEncoding.DecodeString(page.ImageBase64)
			if err != nil {
				continue
			}
			// 例: page.png -> page_1.png
			imgPath, err := urlpath.GenerateIndexedPath(imageBase, page.Page)
			if err != nil {
				slog.Warn("挿絵の出力パス生成に失敗しました。", "page", page.Page, "error", err)
				continue
			}
			if err := p.appCtx.Writer.Write(ctx, imgPath, bytes.NewReader(raw), imageContentType(raw)); err != nil {
				slog.Warn("挿絵の保存に失敗しました。", "path", imgPath, "error", err)
			}
		}
	}

	// 公開URLを組み立てられない場合は空にし、通知側でリンクを省略します。
	publicURL, err := url.JoinPath(cfg.ServiceURL, cfg.BaseOutputDir, requestID)
	if err != nil {
		publicURL = ""
	}
	notifyReq := domain.NotificationRequest{
		RequestID:      requestID,
		OutputCategory: cfg.BaseOutputDir,
		TotalPages:     book.TotalPages,
		Strategy:       p.appCtx.ImagePolicy.Name(),
	}
	if err := p.appCtx.SlackNotifier.Notify(ctx, publicURL, cfg.GetStorageObjectURL(workDir), notifyReq); err != nil {
		slog.Warn("Slack通知に失敗しました。", "error", err)
	}
}

func (p *StorybookPipeline) notifyError(ctx context.Context, requestID string, cause error, totalScenes int) {
	notifyReq := domain.NotificationRequest{
		RequestID:      requestID,
		OutputCategory: p.appCtx.Config.BaseOutputDir,
		TotalPages:     totalScenes,
		Strategy:       p.appCtx.ImagePolicy.Name(),
	}
	if err := p.appCtx.SlackNotifier.NotifyError(ctx, cause, notifyReq); err != nil {
		slog.Warn("Slackエラー通知に失敗しました。", "error", err)
	}
}

func (p *StorybookPipeline) writeJSON(ctx context.Context, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("JSONのシリアライズに失敗しました: %w", err)
	}
	return p.appCtx.Writer.Write(ctx, path, bytes.NewReader(data), "application/json")
}

// withPageIndex はエラーに失敗ページ番号を付与します。
// 既にページ番号を持つエラーはそのまま返します。
func withPageIndex(err error, pageNum int) error {
	if perr, ok := domain.AsPipelineError(err); ok {
		if perr.PageIndex == 0 {
			perr.PageIndex = pageNum
		}
		return err
	}
	return err
}

// imageContentType は保存用のMIMEタイプをバイト列の先頭から推定します。
// プレースホルダーはSVG、上流生成物と再利用画像はPNGとして扱います。
func imageContentType(data []byte) string {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("<svg")) || bytes.HasPrefix(bytes.TrimSpace(data), []byte("<?xml")) {
		return "image/svg+xml"
	}
	return "image/png"
}
