package story

import (
	"strings"
	"testing"

	"ap-storybook-web/internal/domain"
)

func TestParseSceneLines(t *testing.T) {
	t.Run("話者つきの行は話者に帰属する", func(t *testing.T) {
		scene := "Andy: Look at this map!\nBella: Where does it lead?"
		lines := ParseSceneLines(scene)

		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d: %#v", len(lines), lines)
		}
		if lines[0].Speaker != "Andy" || lines[0].Text != "Look at this map!" {
			t.Errorf("unexpected first line: %+v", lines[0])
		}
		if lines[1].Speaker != "Bella" || lines[1].Text != "Where does it lead?" {
			t.Errorf("unexpected second line: %+v", lines[1])
		}
	})

	t.Run("マッチしない行はNarratorに帰属する", func(t *testing.T) {
		scene := "The forest grew darker.\nAndy: I'm not scared."
		lines := ParseSceneLines(scene)

		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}
		if lines[0].Speaker != domain.NarratorSpeaker {
			t.Errorf("expected Narrator, got %q", lines[0].Speaker)
		}
		if lines[0].Text != "The forest grew darker." {
			t.Errorf("unexpected narrator text: %q", lines[0].Text)
		}
		if lines[1].Speaker != "Andy" {
			t.Errorf("expected Andy, got %q", lines[1].Speaker)
		}
	})

	t.Run("話者名と台詞の前後の空白は除去される", func(t *testing.T) {
		lines := ParseSceneLines("  Sammy  :   Hello there!   ")
		if len(lines) != 1 {
			t.Fatalf("expected 1 line, got %d", len(lines))
		}
		if lines[0].Speaker != "Sammy" {
			t.Errorf("speaker not trimmed: %q", lines[0].Speaker)
		}
		if lines[0].Text != "Hello there!" {
			t.Errorf("text not trimmed: %q", lines[0].Text)
		}
	})

	t.Run("長すぎる話者トークンは台詞として扱わない", func(t *testing.T) {
		// 先頭の英字1文字 + 49文字で上限 (1+48) を超えます。
		longToken := "A" + strings.Repeat("b", 49)
		lines := ParseSceneLines(longToken + ": some text")

		if len(lines) != 1 {
			t.Fatalf("expected 1 line, got %d", len(lines))
		}
		if lines[0].Speaker != domain.NarratorSpeaker {
			t.Errorf("expected Narrator for oversized token, got %q", lines[0].Speaker)
		}
	})

	t.Run("数字で始まるトークンは話者にならない", func(t *testing.T) {
		lines := ParseSceneLines("3pm: time to go home")
		if len(lines) != 1 {
			t.Fatalf("expected 1 line, got %d", len(lines))
		}
		if lines[0].Speaker != domain.NarratorSpeaker {
			t.Errorf("expected Narrator, got %q", lines[0].Speaker)
		}
	})

	t.Run("空行はスキップされ順序は保存される", func(t *testing.T) {
		scene := "First line.\n\n\nAndy: second\n  \nThird line."
		lines := ParseSceneLines(scene)

		if len(lines) != 3 {
			t.Fatalf("expected 3 lines, got %d: %#v", len(lines), lines)
		}
		if lines[0].Text != "First line." || lines[1].Text != "second" || lines[2].Text != "Third line." {
			t.Errorf("line order not preserved: %#v", lines)
		}
	})

	t.Run("空白のみのシーンは空スライスを返す", func(t *testing.T) {
		if lines := ParseSceneLines("   \n \t \n"); len(lines) != 0 {
			t.Errorf("expected no lines, got %#v", lines)
		}
	})

	t.Run("ハイフンと空白を含む話者名を許容する", func(t *testing.T) {
		lines := ParseSceneLines("Mary-Jane Watson: Hi everyone!")
		if len(lines) != 1 || lines[0].Speaker != "Mary-Jane Watson" {
			t.Fatalf("unexpected result: %#v", lines)
		}
	})
}
