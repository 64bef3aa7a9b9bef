// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redeblog/redeblog/internal/ai"
	"github.com/redeblog/redeblog/internal/model"
)

type scriptedProvider struct {
	responses []string
	calls     int
	fail      error
}

func (p *scriptedProvider) ID() string { return "scripted" }

func (p *scriptedProvider) ChatCompletion(_ context.Context, _ string, _ ai.ChatRequest) (*ai.ChatResponse, error) {
	if p.fail != nil {
		return nil, p.fail
	}
	if p.calls >= len(p.responses) {
		return nil, errors.New("no scripted response left")
	}
	resp := p.responses[p.calls]
	p.calls++
	return &ai.ChatResponse{Content: resp}, nil
}

type scriptedImageProvider struct {
	fail error
	data []byte
}

func (p *scriptedImageProvider) ID() string { return "scripted-image" }

func (p *scriptedImageProvider) GenerateImage(_ context.Context, _ string, _ ai.ImageRequest) (*ai.ImageResponse, error) {
	if p.fail != nil {
		return nil, p.fail
	}
	return &ai.ImageResponse{ImageData: p.data}, nil
}

func testCaller() *ai.Caller {
	return ai.NewCaller(time.Second, 0, time.Millisecond)
}

func TestGeneratePostPipeline(t *testing.T) {
	text := &scriptedProvider{responses: []string{
		`{"title": "Praias Secretas", "image_prompt": "hidden beach at sunset"}`,
		`{"content": "## Introdução\n\nTexto do artigo.", "seo_description": "Conheça praias secretas"}`,
	}}
	image := &scriptedImageProvider{data: []byte{1, 2, 3}}
	g := NewGeneratorWithProviders(text, "key", "gpt-4o-mini", image, "key", testCaller())

	post, err := g.GeneratePost(context.Background(), model.Hotel{Name: "Hotel Mar"}, "Rede Sul")
	require.NoError(t, err)
	assert.Equal(t, "Praias Secretas", post.Title)
	assert.Contains(t, post.Content, "## Introdução")
	assert.Equal(t, "Conheça praias secretas", post.SEODescription)
	assert.Equal(t, []byte{1, 2, 3}, post.ImageData)
	assert.Equal(t, 2, text.calls)
}

func TestGeneratePostToleratesFencedAndPlainResponses(t *testing.T) {
	text := &scriptedProvider{responses: []string{
		"```json\n{\"title\": \"Gastronomia Local\"}\n```",
		"Artigo completo em texto puro, sem JSON.",
	}}
	image := &scriptedImageProvider{data: []byte{1}}
	g := NewGeneratorWithProviders(text, "key", "gpt-4o-mini", image, "key", testCaller())

	post, err := g.GeneratePost(context.Background(), model.Hotel{Name: "Hotel Mar"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Gastronomia Local", post.Title)
	assert.Equal(t, "Artigo completo em texto puro, sem JSON.", post.Content)
	// A missing image prompt is synthesized from the title.
	assert.Contains(t, post.ImagePrompt, "Gastronomia Local")
}

func TestGeneratePostFailsWhenTextProviderFails(t *testing.T) {
	text := &scriptedProvider{fail: errors.New("rate limited")}
	g := NewGeneratorWithProviders(text, "key", "gpt-4o-mini", &scriptedImageProvider{}, "key", testCaller())

	_, err := g.GeneratePost(context.Background(), model.Hotel{Name: "Hotel Mar"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generating idea")
}

func TestGeneratePostFailsWhenImageProviderFails(t *testing.T) {
	text := &scriptedProvider{responses: []string{
		`{"title": "Titulo"}`,
		`{"content": "corpo"}`,
	}}
	image := &scriptedImageProvider{fail: errors.New("no credits")}
	g := NewGeneratorWithProviders(text, "key", "gpt-4o-mini", image, "key", testCaller())

	_, err := g.GeneratePost(context.Background(), model.Hotel{Name: "Hotel Mar"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generating image")
}

func TestGeneratePostUsesImageFallback(t *testing.T) {
	text := &scriptedProvider{responses: []string{
		`{"title": "Titulo"}`,
		`{"content": "corpo"}`,
	}}
	g := NewGeneratorWithProviders(text, "key", "gpt-4o-mini",
		&scriptedImageProvider{fail: errors.New("down")}, "key", testCaller())
	g.imageFallback = &scriptedImageProvider{data: []byte{9}}
	g.imageFallbackKey = "fb-key"

	post, err := g.GeneratePost(context.Background(), model.Hotel{Name: "Hotel Mar"}, "")
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, post.ImageData)
}

func TestParseJSONResponseSurroundingProse(t *testing.T) {
	var idea postIdea
	err := parseJSONResponse(`Here is the idea you asked for:
{"title": "Trilhas na Serra", "image_prompt": "mountain trail"}
Hope you like it!`, &idea)
	require.NoError(t, err)
	assert.Equal(t, "Trilhas na Serra", idea.Title)
}

func TestFirstLineStripsMarkdown(t *testing.T) {
	assert.Equal(t, "Um Título", firstLine("\n\n# Um Título\nresto"))
	assert.Equal(t, "", firstLine("   \n  "))
}
