// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic automation sweep on a cron spec.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/redeblog/redeblog/internal/automation"
)

// Scheduler triggers automation sweeps on a fixed cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	sweeper *automation.Sweeper
	logger  *slog.Logger
}

// New creates a scheduler around the given sweeper.
func New(sweeper *automation.Sweeper, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		logger:  logger,
	}
}

// Start registers the sweep job with the given cron spec and begins running.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if _, err := s.sweeper.Run(context.Background()); err != nil {
			s.logger.Error("automation sweep failed", "category", "automation", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "spec", spec)
	return nil
}

// Stop waits for any running job and stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
