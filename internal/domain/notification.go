package domain

// NotificationRequest は、生成完了・失敗の通知に載せるメタデータを表します。
type NotificationRequest struct {
	// RequestID は1回の生成リクエストを識別するIDです。
	RequestID string
	// OutputCategory は成果物の種類を示します。(例: "storybook-output")
	OutputCategory string
	// TotalPages は生成されたページ数です。
	TotalPages int
	// Strategy は有効だった画像戦略です。(例: "generate", "reuse")
	Strategy string
}
