// Package extract pulls structured lead details out of a conversation
// transcript using Gemini's schema-constrained JSON output.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"leadchat_backend/internal/leads"
	"leadchat_backend/internal/session"
)

const instructions = `You extract contact and business details from a sales chat transcript.
Return only details the visitor actually stated. Leave unknown fields empty.
Fields: name, email, phone, businessType (the visitor's line of business),
projectGoal (what the visitor wants to achieve).`

var leadSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":         {Type: genai.TypeString, Description: "Visitor's name"},
		"email":        {Type: genai.TypeString, Description: "Visitor's email address"},
		"phone":        {Type: genai.TypeString, Description: "Visitor's phone number"},
		"businessType": {Type: genai.TypeString, Description: "Type of business"},
		"projectGoal":  {Type: genai.TypeString, Description: "Visitor's goal or project"},
	},
}

// GeminiExtractor calls the Gemini API with a response schema so the reply is
// guaranteed to be parseable JSON.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// NewGeminiExtractor creates an extractor for the given model.
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

func (e *GeminiExtractor) Extract(ctx context.Context, history []session.Turn) (leads.Extracted, error) {
	transcript := renderTranscript(history)
	if transcript == "" {
		return leads.Extracted{}, nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(transcript, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instructions, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    leadSchema,
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, config)
	if err != nil {
		return leads.Extracted{}, fmt.Errorf("gemini extraction: %w", err)
	}

	var extracted leads.Extracted
	if err := json.Unmarshal([]byte(resp.Text()), &extracted); err != nil {
		return leads.Extracted{}, fmt.Errorf("parse extraction response: %w", err)
	}
	return extracted, nil
}

func renderTranscript(history []session.Turn) string {
	var b strings.Builder
	for _, turn := range history {
		text := strings.TrimSpace(turn.Content)
		if text == "" {
			continue
		}
		b.WriteString(turn.Role)
		b.WriteString(": ")
		b.WriteString(text)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
