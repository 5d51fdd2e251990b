package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"ap-storybook-web/internal/domain"
)

// GenerateStorybook は POST /api/storybook のエントリーポイントです。
// 本文をシーンに分割し、各ページの朗読音声と挿絵を含む絵本を同期的に返します。
func (h *Handler) GenerateStorybook(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateStorybookRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "リクエストボディの解析に失敗しました: "+err.Error())
		return
	}

	book, err := h.assembler.Assemble(r.Context(), req)
	if err != nil {
		status := statusForError(err)
		slog.Error("絵本の生成リクエストが失敗しました。", "status", status, "error", err)
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// Strategy は GET /api/strategy のエントリーポイントです。
// 現在の配備で有効な画像戦略を返します。
func (h *Handler) Strategy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"imageStrategy": h.cfg.ImageStrategy})
}

// Health は GET /healthz のエントリーポイントです。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusForError はパイプラインのエラー種別を HTTP ステータスに対応付けます。
func statusForError(err error) int {
	perr, ok := domain.AsPipelineError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch perr.Kind {
	case domain.KindMissingInput, domain.KindNoScenesFound:
		return http.StatusBadRequest
	case domain.KindArtifactTooLarge:
		return http.StatusRequestEntityTooLarge
	case domain.KindAudioGenerationFailed, domain.KindImageGenerationFailed:
		return http.StatusBadGateway
	case domain.KindConfigurationMissing:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
