package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// VoiceMap は、話者名から朗読サービスの voice ID への対応表です。
// プロセス全体の定数ではなく、アセンブラ構築時に注入される設定値として扱います。
type VoiceMap map[string]string

// Resolve は話者に対応する voice ID を返します。
// 未登録の話者は Narrator の voice ID にフォールバックします。
func (m VoiceMap) Resolve(speaker string) string {
	if id, ok := m[speaker]; ok && id != "" {
		return id
	}
	return m[NarratorSpeaker]
}

// Validate は対応表として成立しているかを検証します。
// Narrator のエントリは全話者のフォールバック先となるため必須です。
func (m VoiceMap) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("ボイスマップが空です")
	}
	if id, ok := m[NarratorSpeaker]; !ok || id == "" {
		return fmt.Errorf("ボイスマップに %q の voice ID が必要です", NarratorSpeaker)
	}
	return nil
}

// LoadVoiceMap は、指定された GCS URI やローカルファイルパスから
// ボイスマップ JSON を読み込み、検証して返します。
func LoadVoiceMap(ctx context.Context, reader remoteio.InputReader, path string) (VoiceMap, error) {
	slog.InfoContext(ctx, "ボイスマップを読み込んでいます", "path", path)
	rc, err := reader.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ボイスマップのオープンに失敗しました (%s): %w", path, err)
	}
	defer rc.Close()

	voices := VoiceMap{}
	if err := json.NewDecoder(rc).Decode(&voices); err != nil {
		return nil, fmt.Errorf("ボイスマップ JSON のパースに失敗しました: %w", err)
	}
	if err := voices.Validate(); err != nil {
		return nil, err
	}
	return voices, nil
}
