package service

import (
	"context"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/model"

	"github.com/rs/zerolog"
)

// ApplicationStore is the review flow's persistence. Finalize is
// conditional on the row still being pending; the store reports
// model.ErrAlreadyReviewed otherwise, which is what makes accept and
// decline once-only across restarts.
type ApplicationStore interface {
	Get(ctx context.Context, id string) (*model.Application, error)
	Finalize(ctx context.Context, id, status, reviewerID string, reason *string) (*model.Application, error)
}

// ReviewService accepts or declines whitelist applications.
type ReviewService struct {
	apps ApplicationStore
	log  zerolog.Logger
}

func NewReviewService(apps ApplicationStore, log zerolog.Logger) *ReviewService {
	return &ReviewService{apps: apps, log: log}
}

// Accept finalizes the application as accepted.
func (s *ReviewService) Accept(ctx context.Context, id, reviewerID string) (*model.Application, error) {
	app, err := s.apps.Finalize(ctx, id, model.ApplicationAccepted, reviewerID, nil)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("application_id", id).Str("reviewer", reviewerID).Msg("application accepted")
	return app, nil
}

// Decline finalizes the application as declined with a reason.
func (s *ReviewService) Decline(ctx context.Context, id, reviewerID, reason string) (*model.Application, error) {
	var r *string
	if reason != "" {
		r = &reason
	}
	app, err := s.apps.Finalize(ctx, id, model.ApplicationDeclined, reviewerID, r)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("application_id", id).Str("reviewer", reviewerID).Msg("application declined")
	return app, nil
}

// Get loads one application.
func (s *ReviewService) Get(ctx context.Context, id string) (*model.Application, error) {
	return s.apps.Get(ctx, id)
}
