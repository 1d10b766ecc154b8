package chat

import "sync"

// fallbackReplies holds the canned degraded-mode replies, keyed by
// language. Unknown languages fall back to the English pool.
var fallbackReplies = map[string][]string{
	"hi": {
		"Abhi network mein dikkat hai. Thodi der baad phir try karo.",
		"Server se connection nahi ho raha. Thoda ruko, phir baat karte hain.",
	},
	"en": {
		"Network issue right now. Please try again shortly.",
		"Could not reach the assistant. Try again in a moment.",
	},
	"mr": {
		"नेटवर्कमध्ये अडचण आहे. थोड्या वेळाने पुन्हा प्रयत्न करा.",
		"सर्व्हरशी कनेक्शन होत नाही. थोड्या वेळाने पुन्हा विचारा.",
	},
}

// FallbackPool rotates through canned replies per language so repeated
// failures do not always show the same sentence. The cursor only affects
// variety, never correctness.
type FallbackPool struct {
	mu      sync.Mutex
	cursors map[string]int
}

func NewFallbackPool() *FallbackPool {
	return &FallbackPool{cursors: make(map[string]int)}
}

// Reply returns the next canned reply for the language and advances the
// cursor. It never fails.
func (p *FallbackPool) Reply(lang string) string {
	pool, ok := fallbackReplies[lang]
	if !ok {
		pool = fallbackReplies["en"]
		lang = "en"
	}

	p.mu.Lock()
	idx := p.cursors[lang] % len(pool)
	p.cursors[lang] = idx + 1
	p.mu.Unlock()

	return pool[idx]
}
