package story

import "strings"

// sceneSeparator シーン区切りはちょうど空行1つ ("\n\n") です。
const sceneSeparator = "\n\n"

// SplitScenes は物語本文を空行区切りのシーン列に分割します。
// 各シーンは前後の空白を取り除いた非空文字列で、元の本文での出現順を保ちます。
// 再結合やネスト検出は行いません。有効なシーンが1つも無い場合は空スライスを返し、
// その扱い（NoScenesFound）は呼び出し側の責務です。
func SplitScenes(text string) []string {
	segments := strings.Split(text, sceneSeparator)
	scenes := make([]string, 0, len(segments))
	for _, seg := range segments {
		if trimmed := strings.TrimSpace(seg); trimmed != "" {
			scenes = append(scenes, trimmed)
		}
	}
	return scenes
}
