package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/alfaia/alfaia/internal/domain"
)

const (
	transcriptionModel = "whisper-1"
	speechModel        = "tts-1"
	speechVoice        = "alloy"
	imageModel         = "dall-e-3"
	chatModel          = "gpt-4o-mini"
	embeddingModel     = "text-embedding-3-small"
)

// Client is the OpenAI API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new OpenAI client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ensure Client implements Provider interface.
var _ Provider = (*Client)(nil)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// APIError represents the error details.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

type speechRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Voice string `json:"voice"`
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Transcribe sends learner audio to the transcription endpoint.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if filename == "" {
		filename = "audio.ogg"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", &domain.AdapterError{Op: "transcribe", Err: fmt.Errorf("failed to build form: %w", err)}
	}
	if _, err := part.Write(audio); err != nil {
		return "", &domain.AdapterError{Op: "transcribe", Err: fmt.Errorf("failed to write audio: %w", err)}
	}
	if err := writer.WriteField("model", transcriptionModel); err != nil {
		return "", &domain.AdapterError{Op: "transcribe", Err: fmt.Errorf("failed to write field: %w", err)}
	}
	if err := writer.Close(); err != nil {
		return "", &domain.AdapterError{Op: "transcribe", Err: fmt.Errorf("failed to close form: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/audio/transcriptions", &buf)
	if err != nil {
		return "", &domain.AdapterError{Op: "transcribe", Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	respBody, err := c.do(httpReq)
	if err != nil {
		return "", &domain.AdapterError{Op: "transcribe", Err: err}
	}

	var result transcriptionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &domain.AdapterError{Op: "transcribe", Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	return result.Text, nil
}

// Synthesize converts text into spoken audio bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := c.postJSON(ctx, "/v1/audio/speech", speechRequest{
		Model: speechModel,
		Input: text,
		Voice: speechVoice,
	})
	if err != nil {
		return nil, &domain.AdapterError{Op: "synthesize", Err: err}
	}
	return body, nil
}

// GenerateImage renders an illustration and returns the decoded image bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	body, err := c.postJSON(ctx, "/v1/images/generations", imageRequest{
		Model:          imageModel,
		Prompt:         prompt,
		N:              1,
		Size:           "1024x1024",
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return nil, &domain.AdapterError{Op: "generate_image", Err: err}
	}

	var result imageResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &domain.AdapterError{Op: "generate_image", Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	if len(result.Data) == 0 {
		return nil, &domain.AdapterError{Op: "generate_image", Err: fmt.Errorf("empty image response")}
	}
	img, err := base64.StdEncoding.DecodeString(result.Data[0].B64JSON)
	if err != nil {
		return nil, &domain.AdapterError{Op: "generate_image", Err: fmt.Errorf("failed to decode image: %w", err)}
	}
	return img, nil
}

// Complete returns the assistant's reply for a chat transcript.
func (c *Client) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	temperature := 0.7
	body, err := c.postJSON(ctx, "/v1/chat/completions", chatCompletionRequest{
		Model:       chatModel,
		Messages:    messages,
		Temperature: &temperature,
	})
	if err != nil {
		return "", &domain.AdapterError{Op: "complete", Err: err}
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &domain.AdapterError{Op: "complete", Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	if len(result.Choices) == 0 {
		return "", &domain.AdapterError{Op: "complete", Err: fmt.Errorf("empty completion response")}
	}
	return result.Choices[0].Message.Content, nil
}

// Embed returns the embedding vector for a text snippet.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := c.postJSON(ctx, "/v1/embeddings", embeddingRequest{
		Model: embeddingModel,
		Input: text,
	})
	if err != nil {
		return nil, &domain.AdapterError{Op: "embed", Err: err}
	}

	var result embeddingResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &domain.AdapterError{Op: "embed", Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	if len(result.Data) == 0 {
		return nil, &domain.AdapterError{Op: "embed", Err: fmt.Errorf("empty embedding response")}
	}
	return result.Data[0].Embedding, nil
}

// postJSON marshals req, POSTs it, and returns the raw response body.
func (c *Client) postJSON(ctx context.Context, path string, req interface{}) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return nil, fmt.Errorf("OpenAI API error [%d]: %s (type: %s)", resp.StatusCode, errResp.Error.Message, errResp.Error.Type)
		}
		return nil, fmt.Errorf("OpenAI API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
