package gemini

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultModel     = "gemini-1.5-flash"
	maxSummaryTokens = 512
	temperature      = 0.2
)

var (
	ErrMissingAPIKey = errors.New("gemini API key is required")
	ErrEmptyPrompt   = errors.New("empty prompt")
	ErrEmptyResponse = errors.New("no text in Gemini response")
)

const systemInstruction = "You write short post-operative summaries of upper blepharoplasty " +
	"measurements for surgeons. Use only the numbers you are given, keep units, " +
	"and do not give medical advice."

type IGemini interface {
	Summarize(ctx context.Context, prompt string) (string, error)
	Close()
}

type geminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient reads GEMINI_API_KEY and GEMINI_MODEL_NAME.
func NewGeminiClient() (IGemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if modelName == "" {
		modelName = defaultModel
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetMaxOutputTokens(maxSummaryTokens)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}

	return &geminiClient{client: client, model: model}, nil
}

func (g *geminiClient) Summarize(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	res, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	return candidateText(res)
}

// candidateText joins the text parts of the first candidate.
func candidateText(res *genai.GenerateContentResponse) (string, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *geminiClient) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
