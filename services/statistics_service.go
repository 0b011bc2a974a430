package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/worldcup/live"
	"github.com/Dosada05/worldcup/models"
	"github.com/Dosada05/worldcup/repositories"
	"github.com/Dosada05/worldcup/storage"
)

// StatisticsCache stores rendered statistics. Get returns nil on a miss.
type StatisticsCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type StatisticsService interface {
	GetStatistics(ctx context.Context, worldcupID string) (*models.WorldcupStatistics, error)
	// RecordResult counts one finished play: one championship for the winner.
	RecordResult(ctx context.Context, worldcupID string, update models.StatisticsUpdate) error
	StatisticsListener
}

type StatisticsServiceDeps struct {
	Tx        Transactor
	Worldcups repositories.WorldcupRepository
	Stats     repositories.StatsRepository
	Sessions  SessionService
	// Optional.
	Cache     StatisticsCache
	CacheTTL  time.Duration
	Hub       Broadcaster
	Snapshots storage.FileUploader
	Logger    *slog.Logger
}

type statisticsService struct {
	StatisticsServiceDeps
	now func() time.Time
}

func NewStatisticsService(deps StatisticsServiceDeps) StatisticsService {
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = 30 * time.Second
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &statisticsService{StatisticsServiceDeps: deps, now: time.Now}
}

func cachePrefix(worldcupID string) string {
	return "worldcup:" + worldcupID + ":"
}

func statisticsCacheKey(worldcupID string) string {
	return cachePrefix(worldcupID) + "statistics"
}

func (s *statisticsService) GetStatistics(ctx context.Context, worldcupID string) (*models.WorldcupStatistics, error) {
	if s.Cache != nil {
		raw, err := s.Cache.Get(ctx, statisticsCacheKey(worldcupID))
		if err != nil {
			s.Logger.Warn("statistics cache read failed", slog.String("worldcup_id", worldcupID), slog.Any("error", err))
		} else if raw != nil {
			var stats models.WorldcupStatistics
			if err := json.Unmarshal(raw, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.load(ctx, worldcupID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, stats)
	return stats, nil
}

func (s *statisticsService) load(ctx context.Context, worldcupID string) (*models.WorldcupStatistics, error) {
	stats := &models.WorldcupStatistics{WorldcupID: worldcupID}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.Worldcups.GetByID(gCtx, worldcupID)
		return err
	})
	g.Go(func() error {
		items, err := s.Stats.ListItemStatistics(gCtx, worldcupID)
		if err != nil {
			return err
		}
		stats.Items = items
		return nil
	})
	g.Go(func() error {
		n, err := s.Stats.CountPlays(gCtx, worldcupID)
		if err != nil {
			return err
		}
		stats.TotalPlays = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, mapWorldcupError(err)
	}

	stats.ComputeRates()
	stats.GeneratedAt = s.now().UTC()
	return stats, nil
}

func (s *statisticsService) store(ctx context.Context, stats *models.WorldcupStatistics) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, statisticsCacheKey(stats.WorldcupID), raw, s.CacheTTL); err != nil {
		s.Logger.Warn("statistics cache write failed", slog.String("worldcup_id", stats.WorldcupID), slog.Any("error", err))
	}
}

func (s *statisticsService) RecordResult(ctx context.Context, worldcupID string, update models.StatisticsUpdate) error {
	sessionID, err := s.Sessions.Verify(update.SessionToken, worldcupID)
	if err != nil {
		return err
	}
	if update.Winner == nil || update.Winner.ID == "" {
		return ErrWinnerRequired
	}
	if !wonFinal(update.Matches, update.Winner.ID) {
		return ErrWinnerNotInMatches
	}

	err = s.Tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.Stats.RecordPlay(ctx, exec, worldcupID, sessionID, update.Winner.ID); err != nil {
			return err
		}
		return s.Stats.AddChampionship(ctx, exec, worldcupID, update.Winner.ID)
	})
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrPlayAlreadyRecorded):
		return ErrPlayAlreadyRecorded
	case errors.Is(err, repositories.ErrItemNotFound):
		return ErrUnknownItem
	case errors.Is(err, repositories.ErrWorldcupNotFound):
		return ErrWorldcupNotFound
	default:
		return fmt.Errorf("failed to record play: %w", err)
	}

	s.Logger.Info("play recorded",
		slog.String("worldcup_id", worldcupID),
		slog.String("session_id", sessionID),
		slog.String("winner_id", update.Winner.ID))
	s.StatisticsChanged(ctx, worldcupID)
	return nil
}

// wonFinal reports whether winnerID won the latest-round completed match.
func wonFinal(matches []models.Match, winnerID string) bool {
	var final *models.Match
	for i := range matches {
		m := &matches[i]
		if !m.IsCompleted || m.Winner == nil {
			continue
		}
		if final == nil || m.Round > final.Round {
			final = m
		}
	}
	return final != nil && final.Winner.ID == winnerID
}

// StatisticsChanged drops cached statistics and pushes fresh ones to the
// live feed and the snapshot bucket. Failures are only logged.
func (s *statisticsService) StatisticsChanged(ctx context.Context, worldcupID string) {
	log := s.Logger.With(slog.String("worldcup_id", worldcupID))

	if s.Cache != nil {
		if err := s.Cache.DeleteByPrefix(ctx, cachePrefix(worldcupID)); err != nil {
			log.Warn("statistics cache invalidation failed", slog.Any("error", err))
		}
	}
	if s.Hub == nil && s.Snapshots == nil {
		return
	}

	stats, err := s.load(ctx, worldcupID)
	if err != nil {
		log.Error("failed to reload statistics", slog.Any("error", err))
		return
	}
	s.store(ctx, stats)

	if s.Hub != nil {
		s.Hub.BroadcastToRoom(worldcupID, live.Message{
			Type:    live.TypeStatisticsUpdated,
			Payload: stats,
			RoomID:  worldcupID,
		})
	}
	if s.Snapshots != nil {
		s.publish(ctx, stats, log)
	}
}

func (s *statisticsService) publish(ctx context.Context, stats *models.WorldcupStatistics, log *slog.Logger) {
	raw, err := json.Marshal(stats)
	if err != nil {
		log.Error("failed to encode statistics snapshot", slog.Any("error", err))
		return
	}
	res, err := s.Snapshots.Upload(ctx, storage.StatisticsSnapshotKey(stats.WorldcupID), "application/json", bytes.NewReader(raw))
	if err != nil {
		log.Warn("statistics snapshot upload failed", slog.Any("error", err))
		return
	}
	log.Debug("statistics snapshot published", slog.String("location", res.Location))
}
