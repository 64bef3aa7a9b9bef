// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package ai

import (
	"context"
	"fmt"
	"time"
)

// Caller wraps providers with a per-call timeout and bounded retries so one
// slow or flaky upstream call cannot stall a whole generation run.
type Caller struct {
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

// NewCaller returns a Caller with the given limits. Zero Timeout disables
// the deadline; negative Retries means no retry.
func NewCaller(timeout time.Duration, retries int, retryDelay time.Duration) *Caller {
	return &Caller{Timeout: timeout, Retries: retries, RetryDelay: retryDelay}
}

// Chat performs a chat completion with timeout and retry applied.
func (c *Caller) Chat(ctx context.Context, p Provider, apiKey string, req ChatRequest) (*ChatResponse, error) {
	var resp *ChatResponse
	err := c.do(ctx, func(callCtx context.Context) error {
		var err error
		resp, err = p.ChatCompletion(callCtx, apiKey, req)
		return err
	})
	return resp, err
}

// Image performs an image generation with timeout and retry applied.
func (c *Caller) Image(ctx context.Context, p ImageProvider, apiKey string, req ImageRequest) (*ImageResponse, error) {
	var resp *ImageResponse
	err := c.do(ctx, func(callCtx context.Context) error {
		var err error
		resp, err = p.GenerateImage(callCtx, apiKey, req)
		return err
	})
	return resp, err
}

func (c *Caller) do(ctx context.Context, call func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.RetryDelay):
			}
		}

		callCtx := ctx
		cancel := context.CancelFunc(func() {})
		if c.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		}
		lastErr = call(callCtx)
		cancel()

		if lastErr == nil {
			return nil
		}
		// The parent being done means the caller gave up, not the upstream.
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return fmt.Errorf("after %d attempts: %w", c.Retries+1, lastErr)
}
