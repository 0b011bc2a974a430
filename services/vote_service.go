package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/worldcup/models"
	"github.com/Dosada05/worldcup/repositories"
)

// MaxVotesPerRequest matches the largest bracket a player can finish.
const MaxVotesPerRequest = 1024

// StatisticsListener is told when stored counters of a worldcup changed.
type StatisticsListener interface {
	StatisticsChanged(ctx context.Context, worldcupID string)
}

type VoteService interface {
	// SubmitBulk stores votes one by one; a bad vote fails alone.
	SubmitBulk(ctx context.Context, worldcupID string, votes []models.VoteRecord) (models.BulkVoteResult, error)
	SubmitVote(ctx context.Context, worldcupID string, vote models.VoteRecord) error
}

type voteService struct {
	tx        Transactor
	worldcups repositories.WorldcupRepository
	votes     repositories.VoteRepository
	listener  StatisticsListener
	logger    *slog.Logger
}

func NewVoteService(
	tx Transactor,
	worldcups repositories.WorldcupRepository,
	votes repositories.VoteRepository,
	listener StatisticsListener,
	logger *slog.Logger,
) VoteService {
	return &voteService{
		tx:        tx,
		worldcups: worldcups,
		votes:     votes,
		listener:  listener,
		logger:    logger,
	}
}

func (s *voteService) SubmitBulk(ctx context.Context, worldcupID string, votes []models.VoteRecord) (models.BulkVoteResult, error) {
	var res models.BulkVoteResult
	if len(votes) > MaxVotesPerRequest {
		return res, fmt.Errorf("%w: %d > %d", ErrTooManyVotes, len(votes), MaxVotesPerRequest)
	}
	if _, err := s.worldcups.GetByID(ctx, worldcupID); err != nil {
		return res, mapWorldcupError(err)
	}

	changed := false
	for _, v := range votes {
		inserted, err := s.ingest(ctx, worldcupID, v)
		if err != nil {
			res.FailedVotes++
			s.logger.Debug("vote rejected",
				slog.String("worldcup_id", worldcupID),
				slog.String("winner_id", v.WinnerID),
				slog.Any("error", err))
			continue
		}
		res.SuccessfulVotes++
		changed = changed || inserted
	}

	s.logger.Info("bulk votes processed",
		slog.String("worldcup_id", worldcupID),
		slog.Int("successful", res.SuccessfulVotes),
		slog.Int("failed", res.FailedVotes))

	if changed && s.listener != nil {
		s.listener.StatisticsChanged(ctx, worldcupID)
	}
	return res, nil
}

func (s *voteService) SubmitVote(ctx context.Context, worldcupID string, vote models.VoteRecord) error {
	if _, err := s.worldcups.GetByID(ctx, worldcupID); err != nil {
		return mapWorldcupError(err)
	}
	inserted, err := s.ingest(ctx, worldcupID, vote)
	if err != nil {
		return err
	}
	if inserted && s.listener != nil {
		s.listener.StatisticsChanged(ctx, worldcupID)
	}
	return nil
}

// ingest reports inserted=false for a vote already stored under the same key.
func (s *voteService) ingest(ctx context.Context, worldcupID string, v models.VoteRecord) (bool, error) {
	if v.WinnerID == "" {
		return false, ErrVoteWinnerRequired
	}
	if v.WinnerID == v.LoserID {
		return false, ErrVoteSelfMatch
	}

	inserted := false
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		ok, err := s.votes.Insert(ctx, exec, worldcupID, v)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		inserted = true
		return s.votes.AddResult(ctx, exec, worldcupID, v.WinnerID, v.LoserID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrVoteUnknownItem) || errors.Is(err, repositories.ErrItemNotFound) {
			return false, ErrUnknownItem
		}
		return false, fmt.Errorf("failed to store vote: %w", err)
	}
	return inserted, nil
}
