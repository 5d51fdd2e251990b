package adapters

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ap-storybook-web/internal/domain"
)

func TestSlackAdapterWithoutWebhook(t *testing.T) {
	// Webhook 未設定の配備では通知は黙ってスキップされます。
	adapter, err := NewSlackAdapter(nil, "")
	if err != nil {
		t.Fatalf("NewSlackAdapter failed: %v", err)
	}

	req := domain.NotificationRequest{RequestID: "req-1", TotalPages: 3, Strategy: "generate"}

	if err := adapter.Notify(context.Background(), "http://localhost/output/req-1", "output/req-1", req); err != nil {
		t.Errorf("Notify must be a no-op without a webhook: %v", err)
	}
	if err := adapter.NotifyError(context.Background(), errors.New("boom"), req); err != nil {
		t.Errorf("NotifyError must be a no-op without a webhook: %v", err)
	}
}

func TestBuildSlackContent(t *testing.T) {
	adapter := &SlackAdapter{}
	req := domain.NotificationRequest{RequestID: "req-1", TotalPages: 2, Strategy: "reuse"}

	t.Run("公開URLがあればリンクを含める", func(t *testing.T) {
		content := adapter.buildSlackContent("https://example.com/output/req-1", "output/req-1", req)
		if !strings.Contains(content, "https://example.com/output/req-1") {
			t.Errorf("public URL link missing: %q", content)
		}
	})

	t.Run("公開URLが空ならリンク行を省略する", func(t *testing.T) {
		content := adapter.buildSlackContent("", "output/req-1", req)
		if strings.Contains(content, "ブラウザ") {
			t.Errorf("browser link must be omitted: %q", content)
		}
		if !strings.Contains(content, "output/req-1") {
			t.Errorf("storage URI missing: %q", content)
		}
	})

	t.Run("gs URIにはコンソールリンクを付ける", func(t *testing.T) {
		content := adapter.buildSlackContent("", "gs://bucket/output/req-1", req)
		if !strings.Contains(content, "console.cloud.google.com/storage/browser/bucket/output/req-1") {
			t.Errorf("console link missing: %q", content)
		}
	})
}
