package handlers

import (
	"context"

	"ap-storybook-web/internal/config"
	"ap-storybook-web/internal/domain"
)

// StorybookAssembler は絵本生成パイプラインへの入口を抽象化します。
// ハンドラーのテストではフェイク実装に差し替えます。
type StorybookAssembler interface {
	Assemble(ctx context.Context, req domain.GenerateStorybookRequest) (*domain.Storybook, error)
}

type Handler struct {
	cfg       *config.Config
	assembler StorybookAssembler
}

// NewHandler は指定された構成に基づいて新しいハンドラーを初期化します。
func NewHandler(cfg *config.Config, assembler StorybookAssembler) *Handler {
	return &Handler{
		cfg:       cfg,
		assembler: assembler,
	}
}
