// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ai provides clients for text and image generation providers.
package ai

import (
	"context"
	"fmt"
)

// Provider IDs for text generation.
const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderOllama = "ollama"
)

// Provider IDs for image generation.
const (
	ImageProviderOpenAI    = "openai"
	ImageProviderStability = "stability"
)

// ChatMessage represents a message in a chat completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a chat completion request.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

// ChatResponse represents a chat completion response.
type ChatResponse struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// ImageRequest represents an image generation request.
type ImageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
}

// ImageResponse represents an image generation response.
type ImageResponse struct {
	ImageData []byte // raw image bytes (PNG)
	Model     string
}

// Provider is the interface for text generation providers.
type Provider interface {
	ID() string
	ChatCompletion(ctx context.Context, apiKey string, req ChatRequest) (*ChatResponse, error)
}

// ImageProvider is the interface for image generation providers.
type ImageProvider interface {
	ID() string
	GenerateImage(ctx context.Context, apiKey string, req ImageRequest) (*ImageResponse, error)
}

// NewProvider returns the text provider for the given ID. baseURL overrides
// the provider's default endpoint when non-empty; Ollama requires it unless
// the local default is wanted.
func NewProvider(id, baseURL string) (Provider, error) {
	switch id {
	case ProviderOpenAI:
		return newOpenAIClient(baseURL), nil
	case ProviderGroq:
		return newGroqClient(baseURL), nil
	case ProviderOllama:
		return newOllamaClient(baseURL), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", id)
	}
}

// NewImageProvider returns the image provider for the given ID.
func NewImageProvider(id, baseURL string) (ImageProvider, error) {
	switch id {
	case ImageProviderOpenAI:
		return newOpenAIClient(baseURL), nil
	case ImageProviderStability:
		return newStabilityClient(baseURL), nil
	default:
		return nil, fmt.Errorf("unknown image provider: %s", id)
	}
}
