package chat

import (
	"fmt"
	"strings"

	"github.com/agrimitra/advisory-gateway/pkg/models"
)

// promptWindow is how many trailing turns the direct strategy renders
// into its flattened prompt.
const promptWindow = 10

var languageLabels = map[string]string{
	"hi": "Hindi",
	"en": "English",
	"mr": "Marathi",
}

// buildPersonaPrompt flattens the persona instruction, farmer context,
// and the trailing conversation window into a single prompt for the
// direct-model strategy.
func buildPersonaPrompt(chatCtx models.ChatContext, lang string, messages []models.ChatMessage) string {
	preferred, ok := languageLabels[lang]
	if !ok {
		preferred = "English"
	}

	var b strings.Builder
	b.WriteString("Tu Mitra hai — ek AI assistant jo sirf Indian farmers ki madad karta hai.\n")
	b.WriteString("Rules:\n")
	b.WriteString("1. Hamesha usi bhasha mein jawab de jo farmer ne use ki\n")
	b.WriteString("2. Simple words use kar — gaon ka kisan samjhe aise\n")
	b.WriteString("3. Kabhi technical jargon mat use kar\n")
	b.WriteString("4. Maximum 3 sentences mein jawab de\n")
	b.WriteString("5. Hamesha ek clear action ke saath khatam kar: 'Aaj hi becho' ya 'Kal tak ruko' ya 'Doctor ko dikhao'\n")
	b.WriteString("6. Sirf farming, mandi prices, weather, govt schemes ke baare mein baat kar\n")
	b.WriteString("7. Agar koi aur topic aaye → 'Yeh mujhe nahi pata, kheti ke baare mein puchho' bol de\n\n")

	fmt.Fprintf(&b, "Farmer ka current data:\nCrop: %s, District: %s, Spoilage Risk: %s, Last Recommendation: %s\n\n",
		orUnknown(chatCtx.Crop), orUnknown(chatCtx.District),
		orUnknown(chatCtx.RiskCategory), orUnknown(chatCtx.LastRecommendation))

	if chatCtx.NegotiateIntent {
		crop := chatCtx.NegotiateCrop
		if crop == "" {
			crop = orUnknown(chatCtx.Crop)
		}
		b.WriteString("Farmer is asking about NEGOTIATION / PRICING strategy.\n")
		fmt.Fprintf(&b, "Crop being negotiated: %s\n", crop)
		b.WriteString("Give actionable bargaining tips:\n")
		b.WriteString("- Current fair market range (approx MSP or mandi avg)\n")
		b.WriteString("- Best time of day to sell at mandi\n")
		b.WriteString("- Quality factors that increase price\n")
		b.WriteString("- How to counter lowball offers\n")
		b.WriteString("- Suggest the negotiation practice feature\n\n")
	}

	fmt.Fprintf(&b, "Reply language preference: %s.\n\nConversation so far:\n", preferred)

	window := messages
	if len(window) > promptWindow {
		window = window[len(window)-promptWindow:]
	}
	for _, m := range window {
		label := "Farmer"
		if m.Role == models.RoleAssistant {
			label = "Mitra"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, m.Text)
	}
	b.WriteString("\nMitra:")
	return b.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
