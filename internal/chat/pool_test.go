package chat

import "testing"

func TestFallbackPoolRotates(t *testing.T) {
	p := NewFallbackPool()

	first := p.Reply("hi")
	second := p.Reply("hi")
	third := p.Reply("hi")

	if first == "" || second == "" {
		t.Fatal("fallback pool returned an empty reply")
	}
	if first == second {
		t.Error("consecutive replies are identical, cursor did not advance")
	}
	if third != first {
		t.Errorf("rotation did not wrap: got %q, want %q", third, first)
	}
}

func TestFallbackPoolCursorsAreIndependentPerLanguage(t *testing.T) {
	p := NewFallbackPool()

	p.Reply("hi") // advance the Hindi cursor only
	en := p.Reply("en")
	if en != fallbackReplies["en"][0] {
		t.Errorf("English cursor moved with the Hindi one: got %q", en)
	}
}

func TestFallbackPoolUnknownLanguageFallsBackToEnglish(t *testing.T) {
	p := NewFallbackPool()

	if got := p.Reply("fr"); got != fallbackReplies["en"][0] {
		t.Errorf("Reply(fr) = %q, want first English reply", got)
	}
	// The unknown language shares the English cursor.
	if got := p.Reply("en"); got != fallbackReplies["en"][1] {
		t.Errorf("Reply(en) after Reply(fr) = %q, want second English reply", got)
	}
}
