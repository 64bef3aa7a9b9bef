// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// openAIClient implements Provider and ImageProvider for OpenAI.
type openAIClient struct {
	baseURL string
}

func newOpenAIClient(baseURL string) *openAIClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &openAIClient{baseURL: baseURL}
}

func (c *openAIClient) ID() string { return ProviderOpenAI }

func (c *openAIClient) ChatCompletion(ctx context.Context, apiKey string, req ChatRequest) (*ChatResponse, error) {
	body := map[string]any{
		"model":    req.Model,
		"messages": req.Messages,
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}
	if req.Temperature > 0 {
		body["temperature"] = req.Temperature
	}

	respBody, err := doJSONRequest(ctx, c.baseURL+"/chat/completions", apiKey, body)
	if err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}
	resp, err := decodeChatCompletion(respBody)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	return resp, nil
}

// GenerateImage generates an image using DALL-E or GPT Image.
func (c *openAIClient) GenerateImage(ctx context.Context, apiKey string, req ImageRequest) (*ImageResponse, error) {
	body := map[string]any{
		"model":  req.Model,
		"prompt": req.Prompt,
		"n":      1,
		"size":   req.Size,
	}
	// gpt-image-1 doesn't support response_format
	if req.Model == "dall-e-3" {
		body["response_format"] = "b64_json"
	}

	respBody, err := doJSONRequest(ctx, c.baseURL+"/images/generations", apiKey, body)
	if err != nil {
		return nil, fmt.Errorf("openai image: %w", err)
	}

	var result struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
			URL     string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("openai image decode: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("openai: no image data returned")
	}

	var imgData []byte
	switch {
	case result.Data[0].B64JSON != "":
		imgData, err = base64.StdEncoding.DecodeString(result.Data[0].B64JSON)
		if err != nil {
			return nil, fmt.Errorf("openai image base64 decode: %w", err)
		}
	case result.Data[0].URL != "":
		imgData, err = downloadImage(ctx, result.Data[0].URL)
		if err != nil {
			return nil, fmt.Errorf("openai image download: %w", err)
		}
	default:
		return nil, fmt.Errorf("openai: no image data in response")
	}

	return &ImageResponse{ImageData: imgData, Model: req.Model}, nil
}

// groqClient implements Provider for Groq's OpenAI-compatible API.
type groqClient struct {
	baseURL string
}

func newGroqClient(baseURL string) *groqClient {
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	return &groqClient{baseURL: baseURL}
}

func (c *groqClient) ID() string { return ProviderGroq }

func (c *groqClient) ChatCompletion(ctx context.Context, apiKey string, req ChatRequest) (*ChatResponse, error) {
	body := map[string]any{
		"model":    req.Model,
		"messages": req.Messages,
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}
	if req.Temperature > 0 {
		body["temperature"] = req.Temperature
	}

	respBody, err := doJSONRequest(ctx, c.baseURL+"/chat/completions", apiKey, body)
	if err != nil {
		return nil, fmt.Errorf("groq chat: %w", err)
	}
	resp, err := decodeChatCompletion(respBody)
	if err != nil {
		return nil, fmt.Errorf("groq: %w", err)
	}
	return resp, nil
}

// ollamaClient implements Provider for a local Ollama server.
type ollamaClient struct {
	baseURL string
}

func newOllamaClient(baseURL string) *ollamaClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &ollamaClient{baseURL: baseURL}
}

func (c *ollamaClient) ID() string { return ProviderOllama }

func (c *ollamaClient) ChatCompletion(ctx context.Context, _ string, req ChatRequest) (*ChatResponse, error) {
	body := map[string]any{
		"model":    req.Model,
		"messages": req.Messages,
		"stream":   false,
	}

	respBody, err := doJSONRequest(ctx, c.baseURL+"/api/chat", "", body)
	if err != nil {
		return nil, fmt.Errorf("ollama chat: %w", err)
	}

	var result struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		PromptEvalCount int    `json:"prompt_eval_count"`
		EvalCount       int    `json:"eval_count"`
		Model           string `json:"model"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("ollama decode: %w", err)
	}

	return &ChatResponse{
		Content:          result.Message.Content,
		PromptTokens:     result.PromptEvalCount,
		CompletionTokens: result.EvalCount,
		TotalTokens:      result.PromptEvalCount + result.EvalCount,
		Model:            result.Model,
	}, nil
}

// stabilityClient implements ImageProvider for Stability AI.
type stabilityClient struct {
	baseURL string
}

func newStabilityClient(baseURL string) *stabilityClient {
	if baseURL == "" {
		baseURL = "https://api.stability.ai/v1"
	}
	return &stabilityClient{baseURL: baseURL}
}

func (c *stabilityClient) ID() string { return ImageProviderStability }

func (c *stabilityClient) GenerateImage(ctx context.Context, apiKey string, req ImageRequest) (*ImageResponse, error) {
	model := req.Model
	if model == "" {
		model = "stable-diffusion-xl-1024-v1-0"
	}
	body := map[string]any{
		"text_prompts": []map[string]any{{"text": req.Prompt}},
		"samples":      1,
		"width":        1024,
		"height":       1024,
	}

	respBody, err := doJSONRequest(ctx,
		c.baseURL+"/generation/"+model+"/text-to-image", apiKey, body)
	if err != nil {
		return nil, fmt.Errorf("stability image: %w", err)
	}

	var result struct {
		Artifacts []struct {
			Base64 string `json:"base64"`
		} `json:"artifacts"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("stability decode: %w", err)
	}
	if len(result.Artifacts) == 0 {
		return nil, fmt.Errorf("stability: no image data returned")
	}

	imgData, err := base64.StdEncoding.DecodeString(result.Artifacts[0].Base64)
	if err != nil {
		return nil, fmt.Errorf("stability base64 decode: %w", err)
	}

	return &ImageResponse{ImageData: imgData, Model: model}, nil
}

// decodeChatCompletion parses an OpenAI-compatible chat completion response.
func decodeChatCompletion(respBody []byte) (*ChatResponse, error) {
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
		Model string `json:"model"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	return &ChatResponse{
		Content:          result.Choices[0].Message.Content,
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
		TotalTokens:      result.Usage.TotalTokens,
		Model:            result.Model,
	}, nil
}

// doJSONRequest performs a JSON HTTP request with Bearer token auth. The
// deadline comes from ctx so callers control the per-call timeout.
func doJSONRequest(ctx context.Context, url, apiKey string, body any) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// downloadImage fetches image bytes from a provider-hosted URL.
func downloadImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download error (status %d)", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
