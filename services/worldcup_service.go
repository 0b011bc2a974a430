package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/worldcup/models"
	"github.com/Dosada05/worldcup/repositories"
)

type WorldcupService interface {
	GetWorldcup(ctx context.Context, id string) (*models.Worldcup, error)
	CreateSession(ctx context.Context, worldcupID string) (*models.Session, error)
}

type worldcupService struct {
	worldcups repositories.WorldcupRepository
	sessions  SessionService
}

func NewWorldcupService(worldcups repositories.WorldcupRepository, sessions SessionService) WorldcupService {
	return &worldcupService{worldcups: worldcups, sessions: sessions}
}

// GetWorldcup loads the worldcup and its ordered items concurrently.
func (s *worldcupService) GetWorldcup(ctx context.Context, id string) (*models.Worldcup, error) {
	var (
		wc    *models.Worldcup
		items []*models.Item
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		wc, err = s.worldcups.GetByID(gCtx, id)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.worldcups.ListItems(gCtx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapWorldcupError(err)
	}

	wc.Items = items
	return wc, nil
}

func (s *worldcupService) CreateSession(ctx context.Context, worldcupID string) (*models.Session, error) {
	if _, err := s.worldcups.GetByID(ctx, worldcupID); err != nil {
		return nil, mapWorldcupError(err)
	}
	return s.sessions.Issue(worldcupID)
}

func mapWorldcupError(err error) error {
	if errors.Is(err, repositories.ErrWorldcupNotFound) {
		return ErrWorldcupNotFound
	}
	return fmt.Errorf("failed to load worldcup: %w", err)
}
