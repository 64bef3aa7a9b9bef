// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package automation

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/redeblog/redeblog/internal/model"
	"github.com/redeblog/redeblog/internal/store"
	"github.com/redeblog/redeblog/internal/util"
)

// Per-hotel sweep outcomes.
const (
	OutcomeSkipped   = "skipped"
	OutcomePublished = "published"
	OutcomeFailed    = "failed"
)

// PostGenerator produces a complete post for a hotel.
type PostGenerator interface {
	GeneratePost(ctx context.Context, hotel model.Hotel, networkName string) (*GeneratedPost, error)
}

// ImageStore persists generated image bytes and returns a public URL.
type ImageStore interface {
	SaveGeneratedImage(hotelID int64, data []byte) (string, error)
}

// HotelResult is the outcome of processing one hotel in a sweep.
type HotelResult struct {
	HotelID int64  `json:"hotel_id"`
	Hotel   string `json:"hotel"`
	Outcome string `json:"outcome"`
	Detail  string `json:"detail,omitempty"`
	PostID  int64  `json:"post_id,omitempty"`
}

// RunResult is the outcome of one full sweep.
type RunResult struct {
	RunID     string        `json:"run_id"`
	Processed int           `json:"processed"`
	Results   []HotelResult `json:"results"`
}

// Sweeper iterates all automation-enabled hotels and creates posts for the
// eligible ones. Hotels are processed sequentially; the external AI calls
// are the bottleneck and hotel counts are small.
type Sweeper struct {
	queries *store.Queries
	gen     PostGenerator
	images  ImageStore
	log     *slog.Logger

	// now is swappable in tests
	now func() time.Time
}

// NewSweeper creates a Sweeper.
func NewSweeper(queries *store.Queries, gen PostGenerator, images ImageStore, log *slog.Logger) *Sweeper {
	return &Sweeper{
		queries: queries,
		gen:     gen,
		images:  images,
		log:     log,
		now:     time.Now,
	}
}

// Run executes one sweep over all automation-enabled hotels. A hotel's
// failure never aborts the sweep; every hotel gets an audit log entry and a
// result. Run only returns an error when the hotel list itself cannot be
// loaded.
func (s *Sweeper) Run(ctx context.Context) (*RunResult, error) {
	runID := uuid.NewString()
	log := s.log.With("run_id", runID)

	hotels, err := s.queries.ListAutomationHotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing automation hotels: %w", err)
	}
	log.Info("automation sweep started", "hotels", len(hotels))

	result := &RunResult{RunID: runID, Processed: len(hotels)}
	for _, hotel := range hotels {
		hr := s.processHotel(ctx, runID, hotel)
		result.Results = append(result.Results, hr)

		switch hr.Outcome {
		case OutcomePublished:
			log.Info("automated post published", "hotel_id", hotel.ID, "post_id", hr.PostID)
		case OutcomeSkipped:
			log.Debug("hotel skipped", "hotel_id", hotel.ID, "reason", hr.Detail)
		case OutcomeFailed:
			log.Error("hotel automation failed", "hotel_id", hotel.ID, "error", hr.Detail)
		}
	}

	log.Info("automation sweep finished", "processed", result.Processed)
	return result, nil
}

func (s *Sweeper) processHotel(ctx context.Context, runID string, hotel model.Hotel) HotelResult {
	hr := HotelResult{HotelID: hotel.ID, Hotel: hotel.Name}
	now := s.now().UTC().Truncate(time.Second)

	count, err := s.queries.CountPublishedPostsSince(ctx, hotel.ID, MonthStart(now))
	if err != nil {
		return s.fail(ctx, runID, hr, fmt.Errorf("counting monthly posts: %w", err))
	}

	decision := ShouldCreatePost(hotel, now, count)
	if !decision.Eligible {
		return s.skip(ctx, runID, hr, decision.Reason)
	}

	// Claim the hotel before generating so an overlapping sweep cannot
	// create a second post. The claim is reverted on failure, keeping the
	// hotel eligible for the next sweep.
	claimed, err := s.queries.ClaimHotelAutoPost(ctx, hotel.ID, hotel.LastAutoPostAt, now)
	if err != nil {
		return s.fail(ctx, runID, hr, fmt.Errorf("claiming hotel: %w", err))
	}
	if !claimed {
		return s.skip(ctx, runID, hr, "claimed by concurrent sweep")
	}

	post, err := s.generateAndPersist(ctx, hotel, now)
	if err != nil {
		if relErr := s.queries.ReleaseHotelAutoPost(ctx, hotel.ID, hotel.LastAutoPostAt, now); relErr != nil {
			s.log.Error("releasing hotel claim failed", "hotel_id", hotel.ID, "error", relErr)
		}
		return s.fail(ctx, runID, hr, err)
	}

	s.logOutcome(ctx, store.CreateAutomationLogParams{
		HotelID:   hotel.ID,
		PostID:    sql.NullInt64{Int64: post.ID, Valid: true},
		RunID:     runID,
		Status:    model.AutomationStatusSuccess,
		Message:   "post created: " + post.Title,
		CreatedAt: s.now().UTC(),
	})
	hr.Outcome = OutcomePublished
	hr.PostID = post.ID
	return hr
}

// generateAndPersist runs the generation pipeline and writes the post. Any
// step failing means no post exists afterwards.
func (s *Sweeper) generateAndPersist(ctx context.Context, hotel model.Hotel, now time.Time) (*model.Post, error) {
	network, err := s.queries.GetNetworkByID(ctx, hotel.NetworkID)
	if err != nil {
		return nil, fmt.Errorf("loading network: %w", err)
	}

	generated, err := s.gen.GeneratePost(ctx, hotel, network.Name)
	if err != nil {
		return nil, err
	}

	imageURL := ""
	if s.images != nil && len(generated.ImageData) > 0 {
		imageURL, err = s.images.SaveGeneratedImage(hotel.ID, generated.ImageData)
		if err != nil {
			return nil, fmt.Errorf("saving image: %w", err)
		}
	}

	slug, err := s.uniquePostSlug(ctx, hotel.ID, generated.Title)
	if err != nil {
		return nil, fmt.Errorf("deriving slug: %w", err)
	}

	post, err := s.queries.CreatePost(ctx, store.CreatePostParams{
		HotelID:        hotel.ID,
		AuthorID:       hotel.OwnerID,
		Title:          generated.Title,
		Slug:           slug,
		Content:        generated.Content,
		ImageURL:       imageURL,
		SEODescription: generated.SEODescription,
		PublishedAt:    sql.NullTime{Time: now, Valid: true},
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("persisting post: %w", err)
	}
	return &post, nil
}

// uniquePostSlug slugifies the title and appends a numeric suffix until the
// slug is free within the hotel.
func (s *Sweeper) uniquePostSlug(ctx context.Context, hotelID int64, title string) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		base = "post"
	}
	slug := base
	for i := 2; ; i++ {
		taken, err := s.queries.PostSlugExists(ctx, hotelID, slug, 0)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *Sweeper) skip(ctx context.Context, runID string, hr HotelResult, reason string) HotelResult {
	// Skipping is not an error: the audit entry records why with success
	// status.
	s.logOutcome(ctx, store.CreateAutomationLogParams{
		HotelID:   hr.HotelID,
		RunID:     runID,
		Status:    model.AutomationStatusSuccess,
		Message:   "skipped: " + reason,
		CreatedAt: s.now().UTC(),
	})
	hr.Outcome = OutcomeSkipped
	hr.Detail = reason
	return hr
}

func (s *Sweeper) fail(ctx context.Context, runID string, hr HotelResult, err error) HotelResult {
	s.logOutcome(ctx, store.CreateAutomationLogParams{
		HotelID:   hr.HotelID,
		RunID:     runID,
		Status:    model.AutomationStatusError,
		Message:   err.Error(),
		CreatedAt: s.now().UTC(),
	})
	hr.Outcome = OutcomeFailed
	hr.Detail = err.Error()
	return hr
}

func (s *Sweeper) logOutcome(ctx context.Context, arg store.CreateAutomationLogParams) {
	if err := s.queries.CreateAutomationLog(ctx, arg); err != nil {
		s.log.Error("writing automation log failed", "hotel_id", arg.HotelID, "error", err)
	}
}
