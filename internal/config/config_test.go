package config

import (
	"strings"
	"testing"

	"ap-storybook-web/internal/domain"
)

func validConfig() *Config {
	return &Config{
		ServiceURL:       "https://storybook.example.com",
		ImageStrategy:    StrategyGenerate,
		ElevenLabsAPIKey: "el-key",
		RunwareAPIKey:    "rw-key",
	}
}

func TestValidateEssentialConfig(t *testing.T) {
	t.Run("完全な設定は検証を通過する", func(t *testing.T) {
		if err := ValidateEssentialConfig(validConfig()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("localhostのサービスURLは許容される", func(t *testing.T) {
		cfg := validConfig()
		cfg.ServiceURL = "http://localhost:8080"
		if err := ValidateEssentialConfig(cfg); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("非HTTPSのサービスURLは拒否される", func(t *testing.T) {
		cfg := validConfig()
		cfg.ServiceURL = "http://storybook.example.com"
		if err := ValidateEssentialConfig(cfg); err == nil {
			t.Error("expected error for insecure URL")
		}
	})

	t.Run("未知の画像戦略は拒否される", func(t *testing.T) {
		cfg := validConfig()
		cfg.ImageStrategy = "hybrid"
		if err := ValidateEssentialConfig(cfg); err == nil {
			t.Error("expected error for unknown strategy")
		}
	})

	t.Run("朗読APIキーは戦略に関わらず必須", func(t *testing.T) {
		for _, strategy := range []string{StrategyGenerate, StrategyReuse} {
			cfg := validConfig()
			cfg.ImageStrategy = strategy
			cfg.ElevenLabsAPIKey = ""

			err := ValidateEssentialConfig(cfg)
			perr, ok := domain.AsPipelineError(err)
			if !ok || perr.Kind != domain.KindConfigurationMissing {
				t.Errorf("strategy %s: expected configuration_missing, got %v", strategy, err)
			}
		}
	})

	t.Run("挿絵APIキーはgenerate戦略でのみ必須", func(t *testing.T) {
		cfg := validConfig()
		cfg.RunwareAPIKey = ""

		err := ValidateEssentialConfig(cfg)
		perr, ok := domain.AsPipelineError(err)
		if !ok || perr.Kind != domain.KindConfigurationMissing {
			t.Fatalf("expected configuration_missing under generate, got %v", err)
		}

		cfg.ImageStrategy = StrategyReuse
		if err := ValidateEssentialConfig(cfg); err != nil {
			t.Errorf("reuse strategy must not require the image key: %v", err)
		}
	})
}

func TestGetStorageObjectURL(t *testing.T) {
	t.Run("バケット設定時はgs URLを組み立てる", func(t *testing.T) {
		cfg := Config{StorybookBucket: "my-bucket"}
		got := cfg.GetStorageObjectURL("output/abc/storybook.json")
		if got != "gs://my-bucket/output/abc/storybook.json" {
			t.Errorf("unexpected URL: %q", got)
		}
	})

	t.Run("既にgs URLならそのまま返す", func(t *testing.T) {
		cfg := Config{StorybookBucket: "my-bucket"}
		in := "gs://other-bucket/output/abc"
		if got := cfg.GetStorageObjectURL(in); got != in {
			t.Errorf("unexpected URL: %q", got)
		}
	})

	t.Run("バケット未設定ならローカルパスとして扱う", func(t *testing.T) {
		cfg := Config{}
		if got := cfg.GetStorageObjectURL("output/abc"); got != "output/abc" {
			t.Errorf("unexpected path: %q", got)
		}
	})
}

func TestWorkDirs(t *testing.T) {
	cfg := Config{BaseOutputDir: "output"}

	if got := cfg.GetWorkDir("req-1"); got != "output/req-1" {
		t.Errorf("GetWorkDir = %q", got)
	}
	if got := cfg.GetImageDir("req-1"); !strings.HasPrefix(got, "output/req-1/") {
		t.Errorf("GetImageDir = %q", got)
	}
}
