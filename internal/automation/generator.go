// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redeblog/redeblog/internal/ai"
	"github.com/redeblog/redeblog/internal/config"
	"github.com/redeblog/redeblog/internal/model"
)

// GeneratedPost is the output of a successful generation pipeline run.
type GeneratedPost struct {
	Title          string
	Content        string // markdown
	SEODescription string
	ImagePrompt    string
	ImageData      []byte // raw PNG bytes
}

// Generator drives the three-stage pipeline: post idea, full article, header
// image. Any stage failing fails the whole generation; no partial post is
// ever produced.
type Generator struct {
	text     ai.Provider
	textKey  string
	model    string
	image    ai.ImageProvider
	imageKey string
	// fallback image provider, tried when the configured one fails
	imageFallback    ai.ImageProvider
	imageFallbackKey string
	caller           *ai.Caller
}

// NewGenerator builds a Generator from configuration.
func NewGenerator(cfg config.Config) (*Generator, error) {
	text, err := ai.NewProvider(cfg.AIProvider, providerBaseURL(cfg))
	if err != nil {
		return nil, err
	}

	g := &Generator{
		text:    text,
		textKey: textAPIKey(cfg),
		model:   cfg.AIModel,
		caller:  ai.NewCaller(cfg.AITimeout(), cfg.AIRetries, cfg.AIRetryDelay()),
	}

	g.image, err = ai.NewImageProvider(cfg.ImageProvider, "")
	if err != nil {
		return nil, err
	}
	g.imageKey = imageAPIKey(cfg, cfg.ImageProvider)

	// The other supported image provider serves as fallback when it has
	// an API key configured.
	fallbackID := ai.ImageProviderStability
	if cfg.ImageProvider == ai.ImageProviderStability {
		fallbackID = ai.ImageProviderOpenAI
	}
	if key := imageAPIKey(cfg, fallbackID); key != "" {
		g.imageFallback, err = ai.NewImageProvider(fallbackID, "")
		if err != nil {
			return nil, err
		}
		g.imageFallbackKey = key
	}

	return g, nil
}

// NewGeneratorWithProviders builds a Generator with explicit providers.
// Used by tests and by callers that manage provider construction themselves.
func NewGeneratorWithProviders(text ai.Provider, textKey, model string, image ai.ImageProvider, imageKey string, caller *ai.Caller) *Generator {
	return &Generator{
		text: text, textKey: textKey, model: model,
		image: image, imageKey: imageKey, caller: caller,
	}
}

func providerBaseURL(cfg config.Config) string {
	if cfg.AIProvider == ai.ProviderOllama {
		return cfg.OllamaBaseURL
	}
	return ""
}

func textAPIKey(cfg config.Config) string {
	switch cfg.AIProvider {
	case ai.ProviderOpenAI:
		return cfg.OpenAIKey
	case ai.ProviderGroq:
		return cfg.GroqKey
	}
	return ""
}

func imageAPIKey(cfg config.Config, providerID string) string {
	switch providerID {
	case ai.ImageProviderOpenAI:
		return cfg.OpenAIKey
	case ai.ImageProviderStability:
		return cfg.StabilityKey
	}
	return ""
}

// GeneratePost runs the full pipeline for a hotel. networkName is included
// in prompts for brand context.
func (g *Generator) GeneratePost(ctx context.Context, hotel model.Hotel, networkName string) (*GeneratedPost, error) {
	idea, err := g.generateIdea(ctx, hotel, networkName)
	if err != nil {
		return nil, fmt.Errorf("generating idea: %w", err)
	}

	article, err := g.generateArticle(ctx, hotel, idea)
	if err != nil {
		return nil, fmt.Errorf("generating article: %w", err)
	}

	imageData, err := g.generateImage(ctx, idea)
	if err != nil {
		return nil, fmt.Errorf("generating image: %w", err)
	}

	return &GeneratedPost{
		Title:          idea.Title,
		Content:        article.Content,
		SEODescription: article.SEODescription,
		ImagePrompt:    idea.ImagePrompt,
		ImageData:      imageData,
	}, nil
}

type postIdea struct {
	Title       string `json:"title"`
	ImagePrompt string `json:"image_prompt"`
}

func (g *Generator) generateIdea(ctx context.Context, hotel model.Hotel, networkName string) (*postIdea, error) {
	system := `You are a travel content strategist for hotel blogs.
Respond with a valid JSON object (no markdown code fences, no extra text) with exactly these fields:

{
  "title": "An engaging blog post title in Portuguese",
  "image_prompt": "A detailed English prompt for generating a photographic header image matching the title. Describe scene, lighting and mood."
}`

	user := buildHotelContext(hotel, networkName) +
		"\nPropose one blog post idea that would attract guests to this hotel. Avoid generic listicles."

	resp, err := g.caller.Chat(ctx, g.text, g.textKey, ai.ChatRequest{
		Model: g.model,
		Messages: []ai.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   1024,
		Temperature: 0.9,
	})
	if err != nil {
		return nil, err
	}

	idea := &postIdea{}
	if err := parseJSONResponse(resp.Content, idea); err != nil || idea.Title == "" {
		// Fall back to treating the first non-empty line as the title.
		idea.Title = firstLine(resp.Content)
		if idea.Title == "" {
			return nil, fmt.Errorf("empty idea response")
		}
	}
	if idea.ImagePrompt == "" {
		idea.ImagePrompt = "Professional travel photograph for a hotel blog post titled: " + idea.Title
	}
	return idea, nil
}

type generatedArticle struct {
	Content        string `json:"content"`
	SEODescription string `json:"seo_description"`
}

func (g *Generator) generateArticle(ctx context.Context, hotel model.Hotel, idea *postIdea) (*generatedArticle, error) {
	system := `You are an expert travel writer and SEO specialist writing in Portuguese.
Respond with a valid JSON object (no markdown code fences, no extra text) with exactly these fields:

{
  "content": "Full article in Markdown. Minimum 500 words, with ## section headings, a clear introduction and conclusion. No top-level # heading.",
  "seo_description": "Compelling meta description under 160 characters"
}`

	user := buildHotelContext(hotel, "") +
		fmt.Sprintf("\nWrite the full article for the post titled: %s\n", idea.Title)

	resp, err := g.caller.Chat(ctx, g.text, g.textKey, ai.ChatRequest{
		Model: g.model,
		Messages: []ai.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   8192,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	article := &generatedArticle{}
	if err := parseJSONResponse(resp.Content, article); err != nil || article.Content == "" {
		// A plain-text response is still a usable article body.
		body := strings.TrimSpace(resp.Content)
		if body == "" {
			return nil, fmt.Errorf("empty article response")
		}
		article.Content = body
	}
	return article, nil
}

func (g *Generator) generateImage(ctx context.Context, idea *postIdea) ([]byte, error) {
	req := ai.ImageRequest{Prompt: idea.ImagePrompt, Size: "1024x1024"}
	if g.image.ID() == ai.ImageProviderOpenAI {
		req.Model = "dall-e-3"
	}

	resp, err := g.caller.Image(ctx, g.image, g.imageKey, req)
	if err == nil {
		return resp.ImageData, nil
	}
	if g.imageFallback == nil {
		return nil, err
	}

	fbReq := ai.ImageRequest{Prompt: idea.ImagePrompt, Size: "1024x1024"}
	if g.imageFallback.ID() == ai.ImageProviderOpenAI {
		fbReq.Model = "dall-e-3"
	}
	fbResp, fbErr := g.caller.Image(ctx, g.imageFallback, g.imageFallbackKey, fbReq)
	if fbErr != nil {
		return nil, fmt.Errorf("%v; fallback: %w", err, fbErr)
	}
	return fbResp.ImageData, nil
}

func buildHotelContext(hotel model.Hotel, networkName string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Hotel: %s\n", hotel.Name))
	if networkName != "" {
		sb.WriteString(fmt.Sprintf("Hotel network: %s\n", networkName))
	}
	if hotel.City != "" || hotel.Country != "" {
		sb.WriteString(fmt.Sprintf("Location: %s %s %s\n", hotel.City, hotel.State, hotel.Country))
	}
	if hotel.TravelType != "" {
		sb.WriteString(fmt.Sprintf("Travel type: %s\n", hotel.TravelType))
	}
	if hotel.Audience != "" {
		sb.WriteString(fmt.Sprintf("Target audience: %s\n", hotel.Audience))
	}
	if hotel.Season != "" {
		sb.WriteString(fmt.Sprintf("Season: %s\n", hotel.Season))
	}
	if hotel.LocalEvents != "" {
		sb.WriteString(fmt.Sprintf("Local events: %s\n", hotel.LocalEvents))
	}
	if hotel.ThemePreferences != "" {
		sb.WriteString(fmt.Sprintf("Content theme preferences: %s\n", hotel.ThemePreferences))
	}
	return sb.String()
}

// parseJSONResponse extracts a JSON object from an AI response, tolerating
// markdown code fences and surrounding prose.
func parseJSONResponse(response string, v any) error {
	cleaned := strings.TrimSpace(response)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		return json.Unmarshal([]byte(response[start:end+1]), v)
	}
	return fmt.Errorf("no JSON object in response")
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "#*\" "))
		if line != "" {
			return line
		}
	}
	return ""
}
