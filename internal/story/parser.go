package story

import (
	"strings"

	"ap-storybook-web/internal/domain"
)

// ParseSceneLines は、シーン内の各物理行 ("\n" 区切り) を DialogueLine に変換します。
// 「話者名: セリフ」形式にマッチした行はその話者に、マッチしない行は
// Narrator に帰属させます。空行はスキップし、行の順序は保存されます。
// 非空の行すべてがちょうど1つの DialogueLine に対応します。
func ParseSceneLines(scene string) []domain.DialogueLine {
	var lines []domain.DialogueLine
	for _, raw := range strings.Split(scene, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := DialogueRegex.FindStringSubmatch(line); m != nil {
			lines = append(lines, domain.DialogueLine{
				Speaker: strings.TrimSpace(m[1]),
				Text:    m[2],
			})
			continue
		}
		lines = append(lines, domain.DialogueLine{
			Speaker: domain.NarratorSpeaker,
			Text:    line,
		})
	}
	return lines
}
