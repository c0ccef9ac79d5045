package gemini

import (
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestCandidateText(t *testing.T) {
	withParts := func(parts ...genai.Part) *genai.GenerateContentResponse {
		return &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
		}
	}

	tests := []struct {
		name    string
		res     *genai.GenerateContentResponse
		want    string
		wantErr error
	}{
		{"joined", withParts(genai.Text("Total 26, "), genai.Text("band Good.\n")), "Total 26, band Good.", nil},
		{"blob skipped", withParts(genai.Blob{MIMEType: "image/png"}, genai.Text("ok")), "ok", nil},
		{"whitespace only", withParts(genai.Text("  ")), "", ErrEmptyResponse},
		{"no candidates", &genai.GenerateContentResponse{}, "", ErrEmptyResponse},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, "", ErrEmptyResponse},
		{"nil response", nil, "", ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := candidateText(tt.res)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := NewGeminiClient(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
}
