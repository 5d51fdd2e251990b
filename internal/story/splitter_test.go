package story

import (
	"strings"
	"testing"
)

func TestSplitScenes(t *testing.T) {
	t.Run("空行区切りで複数シーンに分割される", func(t *testing.T) {
		text := "One sunny morning, Andy found a map.\n\nAndy: Look at this!\nBella: Where does it lead?\n\nThey set off into the forest."
		scenes := SplitScenes(text)

		if len(scenes) != 3 {
			t.Fatalf("expected 3 scenes, got %d: %#v", len(scenes), scenes)
		}
		if scenes[0] != "One sunny morning, Andy found a map." {
			t.Errorf("unexpected first scene: %q", scenes[0])
		}
		if !strings.HasPrefix(scenes[1], "Andy:") {
			t.Errorf("unexpected second scene: %q", scenes[1])
		}
		if scenes[2] != "They set off into the forest." {
			t.Errorf("unexpected third scene: %q", scenes[2])
		}
	})

	t.Run("単一シーンはそのまま1要素になる", func(t *testing.T) {
		scenes := SplitScenes("A quiet tale with no scene breaks.\nJust one paragraph.")
		if len(scenes) != 1 {
			t.Fatalf("expected 1 scene, got %d", len(scenes))
		}
	})

	t.Run("空白のみの区画は捨てられる", func(t *testing.T) {
		text := "First scene.\n\n   \n\nSecond scene.\n\n\t\n"
		scenes := SplitScenes(text)

		if len(scenes) != 2 {
			t.Fatalf("expected 2 scenes, got %d: %#v", len(scenes), scenes)
		}
		for i, s := range scenes {
			if strings.TrimSpace(s) == "" {
				t.Errorf("scene %d is blank", i)
			}
			if s != strings.TrimSpace(s) {
				t.Errorf("scene %d is not trimmed: %q", i, s)
			}
		}
	})

	t.Run("空白のみの本文はシーンゼロ", func(t *testing.T) {
		for _, text := range []string{"", "   ", "\n\n\n", " \t \n\n \t "} {
			if scenes := SplitScenes(text); len(scenes) != 0 {
				t.Errorf("SplitScenes(%q) = %#v, want empty", text, scenes)
			}
		}
	})

	t.Run("シーンの順序は本文の出現順を保つ", func(t *testing.T) {
		text := "alpha\n\nbravo\n\ncharlie\n\ndelta"
		scenes := SplitScenes(text)
		want := []string{"alpha", "bravo", "charlie", "delta"}

		if len(scenes) != len(want) {
			t.Fatalf("expected %d scenes, got %d", len(want), len(scenes))
		}
		for i := range want {
			if scenes[i] != want[i] {
				t.Errorf("scenes[%d] = %q, want %q", i, scenes[i], want[i])
			}
		}
	})
}
