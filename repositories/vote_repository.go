package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/worldcup/models"
)

var (
	ErrVoteUnknownItem = errors.New("vote references an item outside the worldcup")
	ErrItemNotFound    = errors.New("item not found")
)

const (
	insertVoteQuery = `
		INSERT INTO votes (worldcup_id, winner_id, loser_id, idempotency_key)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT ` + constraintVoteIdempotency + ` DO NOTHING`

	countWinQuery = `
		INSERT INTO item_stats (worldcup_id, item_id, wins) VALUES ($1, $2, 1)
		ON CONFLICT ON CONSTRAINT ` + constraintItemStatsPK + ` DO UPDATE SET wins = item_stats.wins + 1`

	countLossQuery = `
		INSERT INTO item_stats (worldcup_id, item_id, losses) VALUES ($1, $2, 1)
		ON CONFLICT ON CONSTRAINT ` + constraintItemStatsPK + ` DO UPDATE SET losses = item_stats.losses + 1`
)

type VoteRepository interface {
	// Insert stores the vote. inserted is false when a vote with the same
	// idempotency key already exists.
	Insert(ctx context.Context, exec SQLExecutor, worldcupID string, vote models.VoteRecord) (inserted bool, err error)
	AddResult(ctx context.Context, exec SQLExecutor, worldcupID, winnerID, loserID string) error
}

type postgresVoteRepository struct {
	db *sql.DB
}

func NewPostgresVoteRepository(db *sql.DB) VoteRepository {
	return &postgresVoteRepository{db: db}
}

func (r *postgresVoteRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresVoteRepository) Insert(ctx context.Context, exec SQLExecutor, worldcupID string, vote models.VoteRecord) (bool, error) {
	result, err := r.getExecutor(exec).ExecContext(ctx, insertVoteQuery,
		worldcupID, vote.WinnerID, nullString(vote.LoserID), nullString(vote.IdempotencyKey))
	if err != nil {
		return false, r.handleVoteError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n > 0, nil
}

// AddResult bumps the winner's wins and, when loserID is set, the loser's losses.
func (r *postgresVoteRepository) AddResult(ctx context.Context, exec SQLExecutor, worldcupID, winnerID, loserID string) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, countWinQuery, worldcupID, winnerID); err != nil {
		return fmt.Errorf("failed to count win for item %s: %w", winnerID, r.handleVoteError(err))
	}
	if loserID == "" {
		return nil
	}

	if _, err := executor.ExecContext(ctx, countLossQuery, worldcupID, loserID); err != nil {
		return fmt.Errorf("failed to count loss for item %s: %w", loserID, r.handleVoteError(err))
	}
	return nil
}

func (r *postgresVoteRepository) handleVoteError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
		switch pqErr.Constraint {
		case constraintVoteWinnerFK, constraintVoteLoserFK:
			return ErrVoteUnknownItem
		case constraintItemStatsItemFK:
			return ErrItemNotFound
		}
	}
	return err
}
