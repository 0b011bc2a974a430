package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/worldcup/models"
)

var ErrPlayAlreadyRecorded = errors.New("play already recorded for this session")

const countChampionshipQuery = `
		INSERT INTO item_stats (worldcup_id, item_id, championships) VALUES ($1, $2, 1)
		ON CONFLICT ON CONSTRAINT ` + constraintItemStatsPK + ` DO UPDATE SET championships = item_stats.championships + 1`

type StatsRepository interface {
	RecordPlay(ctx context.Context, exec SQLExecutor, worldcupID, sessionID, winnerID string) error
	AddChampionship(ctx context.Context, exec SQLExecutor, worldcupID, itemID string) error
	ListItemStatistics(ctx context.Context, worldcupID string) ([]models.ItemStatistics, error)
	CountPlays(ctx context.Context, worldcupID string) (int, error)
}

type postgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) StatsRepository {
	return &postgresStatsRepository{db: db}
}

func (r *postgresStatsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStatsRepository) RecordPlay(ctx context.Context, exec SQLExecutor, worldcupID, sessionID, winnerID string) error {
	query := `INSERT INTO plays (session_id, worldcup_id, winner_id) VALUES ($1, $2, $3)`
	_, err := r.getExecutor(exec).ExecContext(ctx, query, sessionID, worldcupID, winnerID)
	return r.handleStatsError(err)
}

func (r *postgresStatsRepository) AddChampionship(ctx context.Context, exec SQLExecutor, worldcupID, itemID string) error {
	_, err := r.getExecutor(exec).ExecContext(ctx, countChampionshipQuery, worldcupID, itemID)
	return r.handleStatsError(err)
}

// ListItemStatistics includes items nobody has voted for yet.
func (r *postgresStatsRepository) ListItemStatistics(ctx context.Context, worldcupID string) ([]models.ItemStatistics, error) {
	query := `
		SELECT i.id, i.title,
			COALESCE(s.wins, 0), COALESCE(s.losses, 0), COALESCE(s.championships, 0)
		FROM worldcup_items i
		LEFT JOIN item_stats s ON s.worldcup_id = i.worldcup_id AND s.item_id = i.id
		WHERE i.worldcup_id = $1
		ORDER BY COALESCE(s.championships, 0) DESC, COALESCE(s.wins, 0) DESC, i.position`

	rows, err := r.db.QueryContext(ctx, query, worldcupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query item statistics: %w", err)
	}
	defer rows.Close()

	stats := make([]models.ItemStatistics, 0)
	for rows.Next() {
		var s models.ItemStatistics
		if err := rows.Scan(&s.ItemID, &s.Title, &s.Wins, &s.Losses, &s.Championships); err != nil {
			return nil, fmt.Errorf("failed to scan item statistics: %w", err)
		}
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *postgresStatsRepository) CountPlays(ctx context.Context, worldcupID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plays WHERE worldcup_id = $1`, worldcupID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count plays: %w", err)
	}
	return n, nil
}

func (r *postgresStatsRepository) handleStatsError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			if pqErr.Constraint == constraintPlaysPK {
				return ErrPlayAlreadyRecorded
			}
		case pqForeignKeyViolation:
			if pqErr.Constraint == constraintItemStatsItemFK {
				return ErrItemNotFound
			}
			return ErrWorldcupNotFound
		}
	}
	return err
}
