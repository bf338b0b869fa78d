package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/abbasia-institute/portal-api/internal/models"
	"github.com/abbasia-institute/portal-api/pkg/config"
)

// systemInstruction is the fixed persona sent with every turn. The endpoint is
// stateless: the whole transcript is resent each time.
const systemInstruction = `أنت المساعد الذكي لمعهد العباسية. اسمك "عباس".
مهمتك هي مساعدة الطلاب في شؤونهم الدراسية في تخصصات المحاسبة ونظم معلومات الأعمال والإدارة.
كن ودوداً، مهنياً، ودقيقاً. أجب باللغة العربية بلهجة مصرية مهذبة أو فصحى حسب الحاجة.
المعهد يضم ثلاث شعب رئيسية: المحاسبة، BIS، والإدارة.
دائماً قدم نصائح دراسية وتحفيزية للطلاب.`

// ErrEmptyReply is returned when the endpoint answered but produced no usable
// text. Callers substitute a softer fallback than for transport failures.
var ErrEmptyReply = errors.New("empty assistant reply")

// GeminiClient wraps the hosted chat-completion endpoint.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient builds a client for the configured model.
func NewGeminiClient(ctx context.Context, cfg config.AssistantConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("assistant api key missing")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	name := cfg.Model
	if name == "" {
		name = "gemini-1.5-flash"
	}
	model := client.GenerativeModel(name)

	temp := float32(cfg.Temperature)
	if temp <= 0 {
		temp = 0.7
	}
	model.Temperature = &temp
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}

	return &GeminiClient{client: client, model: model}, nil
}

// Reply sends the full prior transcript plus the new prompt and returns the
// model's text. An empty reply is reported as an error so callers can
// substitute their fallback.
func (g *GeminiClient) Reply(ctx context.Context, history []models.Message, prompt string) (string, error) {
	chat := g.model.StartChat()
	chat.History = make([]*genai.Content, 0, len(history))
	for _, m := range history {
		chat.History = append(chat.History, &genai.Content{
			Role:  string(m.Role),
			Parts: []genai.Part{genai.Text(m.Text)},
		})
	}

	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyReply
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	reply := strings.TrimSpace(sb.String())
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

// Close releases the underlying transport.
func (g *GeminiClient) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}
