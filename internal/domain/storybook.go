package domain

// NarratorSpeaker は、話者プレフィックスを持たない行に割り当てる番兵値です。
const NarratorSpeaker = "Narrator"

// DialogueLine は、シーン内の1行を話者付きで表します。
type DialogueLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Page は、絵本の1ページ分の成果物です。
// AudioBase64 と ImageBase64 は常に base64 文字列であり、null にはなりません。
type Page struct {
	Page        int            `json:"page"`
	Text        string         `json:"text"`
	Lines       []DialogueLine `json:"lines"`
	AudioBase64 string         `json:"audioBase64"`
	ImageBase64 string         `json:"imageBase64"`
}

// Storybook は、パイプラインが返す最終成果物です。
// 1回の呼び出しごとに新規構築され、返却後に変更されることはありません。
type Storybook struct {
	Success    bool   `json:"success"`
	TotalPages int    `json:"totalPages"`
	Pages      []Page `json:"storybook"`
}

// GenerateStorybookRequest は、絵本生成APIのリクエストボディです。
type GenerateStorybookRequest struct {
	// StoryText は空行 ("\n\n") で区切られた複数シーンの物語本文です。必須。
	StoryText string `json:"storyText"`
	// OriginalImageData はユーザーがアップロードした元画像の base64 文字列です。
	// "data:image/...;base64," プレフィックスを含んでいても構いません。
	// reuse 戦略でのみ、最終ページの画像として利用されます。
	OriginalImageData string `json:"originalImageData,omitempty"`
}
