package story

import "regexp"

// DialogueRegex は「話者名: セリフ」形式の行をキャプチャします。
// 話者トークンは英字で始まり、英数字・アンダースコア・ハイフン・空白が
// 最大48文字続く短い名前に限定します。散文の途中に偶然コロンが現れた
// だけの行を台詞と誤認しないための境界です。
var DialogueRegex = regexp.MustCompile(`^\s*([A-Za-z][\w\- ]{0,48})\s*:\s*(.+?)\s*$`)
