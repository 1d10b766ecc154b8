package chat

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/agrimitra/advisory-gateway/internal/chain"
	"github.com/agrimitra/advisory-gateway/internal/classify"
	"github.com/agrimitra/advisory-gateway/pkg/models"
)

// agentWindow is how many trailing turns the agent strategy receives.
// The proxy and direct strategies use the shorter promptWindow.
const agentWindow = 12

// negotiationScreen is the navigation hint attached when bargaining
// intent was detected and no strategy supplied a hint of its own.
const negotiationScreen = "NegotiationPractice"

var negotiationSuggestions = map[string]string{
	"hi": "Mandi jaane se pehle Negotiation Practice mein ek baar bhav tay karne ka abhyas kar lo.",
	"en": "Before you head to the mandi, try a quick round of price bargaining in Negotiation Practice.",
	"mr": "मंडईत जाण्यापूर्वी Negotiation Practice मध्ये एकदा भाव ठरवण्याचा सराव करून बघा.",
}

// Cascade resolves a chat turn through ordered strategies: agent, proxy,
// direct model, fallback pool. The pool is unconditional, so GetReply
// always produces a non-empty reply.
type Cascade struct {
	agent   Agent
	proxy   Proxy
	direct  Direct
	pool    *FallbackPool
	history *History
}

func NewCascade(agent Agent, proxy Proxy, direct Direct, pool *FallbackPool, history *History) *Cascade {
	return &Cascade{agent: agent, proxy: proxy, direct: direct, pool: pool, history: history}
}

// GetReply produces a reply for the latest user turn. Strategy failures
// are logged and absorbed; the caller always receives a usable reply
// with its source strategy recorded.
func (c *Cascade) GetReply(ctx context.Context, messages []models.ChatMessage, chatCtx models.ChatContext, locale models.DialectProfile, id models.Identity) models.ChatReply {
	lang := locale.Language
	if lang == "" {
		lang = "hi"
	}

	// Classification runs once, on the triggering user turn, before any
	// strategy: its result annotates the outgoing context and decides
	// the post-acceptance augmentation.
	userText := latestUserText(messages)
	cls := classify.Classify(userText)
	if cls.NegotiationCrop != "" {
		chatCtx.NegotiateIntent = true
		chatCtx.NegotiateCrop = cls.NegotiationCrop
	}

	steps := []chain.Step[models.ChatReply]{
		{
			Name: "agent",
			Run: func(ctx context.Context) (models.ChatReply, error) {
				reply, err := c.agent.Reply(ctx, window(messages, agentWindow), chatCtx, id)
				if err != nil {
					return models.ChatReply{}, err
				}
				if reply.Emotion == "" {
					reply.Emotion = cls.Emotion
				}
				reply.Source = models.SourceAgent
				return reply, nil
			},
		},
		{
			Name: "proxy",
			Run: func(ctx context.Context) (models.ChatReply, error) {
				text, err := c.proxy.Reply(ctx, window(messages, promptWindow), chatCtx, lang)
				if err != nil {
					return models.ChatReply{}, err
				}
				return models.ChatReply{Reply: text, Emotion: cls.Emotion, Source: models.SourceProxy}, nil
			},
		},
		{
			Name: "direct",
			Run: func(ctx context.Context) (models.ChatReply, error) {
				text, err := c.direct.Complete(ctx, buildPersonaPrompt(chatCtx, lang, messages))
				if err != nil {
					return models.ChatReply{}, err
				}
				return models.ChatReply{Reply: text, Emotion: cls.Emotion, Source: models.SourceDirect}, nil
			},
		},
		{
			Name: "fallback-pool",
			Run: func(ctx context.Context) (models.ChatReply, error) {
				return models.ChatReply{Reply: c.pool.Reply(lang), Emotion: cls.Emotion, Source: models.SourceFallbackPool}, nil
			},
		},
	}

	reply, _, err := chain.First(ctx, "chat.getReply", steps)
	if err != nil {
		// Unreachable while the fallback pool exists; kept so GetReply
		// stays total even if the chain is misconfigured.
		reply = models.ChatReply{Reply: c.pool.Reply(lang), Emotion: cls.Emotion, Source: models.SourceFallbackPool}
	}

	// Post-acceptance augmentation, exactly once, regardless of which
	// strategy produced the reply.
	if chatCtx.NegotiateIntent && reply.NavigateTo == "" {
		suggestion, ok := negotiationSuggestions[lang]
		if !ok {
			suggestion = negotiationSuggestions["en"]
		}
		reply.Reply += "\n\n" + suggestion
		reply.NavigateTo = negotiationScreen
	}

	if userText != "" {
		err := c.history.Record(ctx, id,
			models.ChatMessage{Role: models.RoleUser, Text: userText, Emotion: cls.Emotion},
			models.ChatMessage{Role: models.RoleAssistant, Text: reply.Reply},
		)
		if err != nil {
			log.Warn().
				Str("user_id", id.UserID).
				Err(err).
				Msg("Failed to record conversation turn")
		}
	}

	return reply
}

func latestUserText(messages []models.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == models.RoleUser {
			return messages[i].Text
		}
	}
	return ""
}

func window(messages []models.ChatMessage, n int) []models.ChatMessage {
	if len(messages) > n {
		return messages[len(messages)-n:]
	}
	return messages
}
