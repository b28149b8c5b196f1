// Package chatapi is a thin client for OpenAI-compatible chat, transcription
// and speech endpoints.
package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Roles accepted by the chat completions endpoint.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Config for the chat API client.
type Config struct {
	BaseURL            string
	APIKey             string
	ChatModel          string
	VisionModel        string
	TranscriptionModel string
	SpeechModel        string
}

// Client talks to an OpenAI-compatible API.
type Client struct {
	config Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Message is a single chat turn. Content holds plain text; Parts is used
// instead when the turn mixes text and images.
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// TextMessage builds a plain text chat turn.
func TextMessage(role, text string) Message {
	return Message{Role: role, Content: text}
}

// ImageMessage builds a user turn with text plus an inline base64 image.
func ImageMessage(text, mimeType, base64Data string) Message {
	return Message{
		Role: RoleUser,
		Content: []map[string]interface{}{
			{"type": "text", "text": text},
			{"type": "image_url", "image_url": map[string]string{
				"url": fmt.Sprintf("data:%s;base64,%s", mimeType, base64Data),
			}},
		},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ChatCompletion sends the conversation to the chat model and returns the
// assistant reply text. The model is chosen by whether images are present.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message, withVision bool) (string, error) {
	model := c.config.ChatModel
	if withVision {
		model = c.config.VisionModel
	}

	payload := chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   1000,
		Temperature: 0.7,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("chat api error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("chat api error: empty choices")
	}

	return result.Choices[0].Message.Content, nil
}

type transcriptionResponse struct {
	Text  string    `json:"text"`
	Error *apiError `json:"error"`
}

// transcriptionPrompt gives the model the conversation domain and warns it
// that addresses may be spelled out, which improves accuracy on both.
const transcriptionPrompt = "This is a conversation in English about business, marketing, and web development. The speaker may spell out their name, email address or phone number."

// Transcribe sends audio to the transcription endpoint and returns the text.
func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	_ = writer.WriteField("model", c.config.TranscriptionModel)
	_ = writer.WriteField("language", "en")
	_ = writer.WriteField("prompt", transcriptionPrompt)
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	var result transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("transcription api error: %s", result.Error.Message)
	}

	return result.Text, nil
}

type speechRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Voice string `json:"voice"`
}

// Speech converts text to spoken audio and returns the raw audio bytes.
func (c *Client) Speech(ctx context.Context, text, voice string) ([]byte, error) {
	if voice == "" {
		voice = "alloy"
	}

	jsonBody, err := json.Marshal(speechRequest{
		Model: c.config.SpeechModel,
		Input: text,
		Voice: voice,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/audio/speech", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("speech api error: status %d: %s", resp.StatusCode, string(raw))
	}

	return io.ReadAll(resp.Body)
}
