// Package classify detects emotion and negotiation intent in farmer
// messages. Both detectors are pure functions over the raw text of the
// most recent user turn; results are derived per turn and never cached.
package classify

import (
	"strings"

	"github.com/agrimitra/advisory-gateway/pkg/models"
)

// DetectEmotion reports the first emotion category whose keyword list
// intersects the text, in the fixed order worried, happy, frustrated.
// Returns "" when nothing matches — no signal, which is distinct from a
// default "neutral".
func DetectEmotion(text string) string {
	lower := strings.ToLower(text)
	for _, cat := range emotionCategories {
		if containsAny(lower, cat.Keywords) {
			return cat.Name
		}
	}
	return ""
}

// DetectNegotiationIntent reports which crop the user wants to bargain
// over. Returns "" when no bargaining keyword is present; the sentinel
// "general" when intent is present but no known crop is named.
func DetectNegotiationIntent(text string) string {
	lower := strings.ToLower(text)
	if !containsAny(lower, bargainingKeywords) {
		return ""
	}
	for _, crop := range cropSynonyms {
		if containsAny(lower, crop.Keywords) {
			return crop.Name
		}
	}
	return models.NegotiationCropGeneral
}

// Classify runs both detectors over one message.
func Classify(text string) models.Classification {
	return models.Classification{
		Emotion:         DetectEmotion(text),
		NegotiationCrop: DetectNegotiationIntent(text),
	}
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
