// Package ai wraps the hosted completion service behind a
// complete(model, prompt) boundary. The service is opaque: no retries beyond
// what callers add, and model names come from a fixed allow-list.
package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrUnknownModel = errors.New("unknown completion model")

// Config identifies the completion endpoint and the models a request may
// choose from. The first allowed model is not implicitly the default;
// DefaultModel is.
type Config struct {
	BaseURL       string
	APIKey        string
	DefaultModel  string
	AllowedModels []string
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// ResolveModel maps an optional per-request model name onto the allow-list.
// Empty selects the default; anything not allowed is rejected.
func (c *Client) ResolveModel(model string) (string, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return c.cfg.DefaultModel, nil
	}
	for _, allowed := range c.cfg.AllowedModels {
		if model == allowed {
			return model, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownModel, model)
}

// Complete sends the assembled prompt to the completion service and returns
// the generated text.
func (c *Client) Complete(ctx context.Context, model, prompt string) (string, error) {
	resolved, err := c.ResolveModel(model)
	if err != nil {
		return "", err
	}

	raw, err := c.post(ctx, resolved, prompt, false)
	if err != nil {
		return "", err
	}
	defer raw.Close()

	body, err := io.ReadAll(raw)
	if err != nil {
		return "", fmt.Errorf("read completion response failed: %w", err)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse completion json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty completion choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// StreamComplete streams the generation, invoking onChunk per text delta,
// and returns the full text.
func (c *Client) StreamComplete(ctx context.Context, model, prompt string, onChunk func(chunk string) error) (string, error) {
	resolved, err := c.ResolveModel(model)
	if err != nil {
		return "", err
	}

	raw, err := c.post(ctx, resolved, prompt, true)
	if err != nil {
		return "", err
	}
	defer raw.Close()

	scanner := bufio.NewScanner(raw)
	scanner.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	var full strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			break
		}

		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		text := chunk.Choices[0].Delta.Content
		full.WriteString(text)
		if err := onChunk(text); err != nil {
			return "", err
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan completion stream failed: %w", err)
	}
	return full.String(), nil
}

func (c *Client) post(ctx context.Context, model, prompt string, stream bool) (io.ReadCloser, error) {
	reqBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"stream": stream,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal completion request failed: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build completion request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("completion status %d: %s", resp.StatusCode, string(raw))
	}
	return resp.Body, nil
}
