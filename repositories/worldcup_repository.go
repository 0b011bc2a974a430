package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/worldcup/models"
)

var ErrWorldcupNotFound = errors.New("worldcup not found")

type WorldcupRepository interface {
	GetByID(ctx context.Context, id string) (*models.Worldcup, error)
	ListItems(ctx context.Context, worldcupID string) ([]*models.Item, error)
}

type postgresWorldcupRepository struct {
	db *sql.DB
}

func NewPostgresWorldcupRepository(db *sql.DB) WorldcupRepository {
	return &postgresWorldcupRepository{db: db}
}

func (r *postgresWorldcupRepository) GetByID(ctx context.Context, id string) (*models.Worldcup, error) {
	query := `SELECT id, title, description, created_at FROM worldcups WHERE id = $1`

	wc := &models.Worldcup{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&wc.ID, &wc.Title, &wc.Description, &wc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorldcupNotFound
		}
		return nil, err
	}
	return wc, nil
}

// ListItems returns the candidates in their stored order.
func (r *postgresWorldcupRepository) ListItems(ctx context.Context, worldcupID string) ([]*models.Item, error) {
	query := `
		SELECT id, title, metadata
		FROM worldcup_items
		WHERE worldcup_id = $1
		ORDER BY position, id`

	rows, err := r.db.QueryContext(ctx, query, worldcupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items of worldcup %s: %w", worldcupID, err)
	}
	defer rows.Close()

	items := make([]*models.Item, 0)
	for rows.Next() {
		var (
			it  models.Item
			raw []byte
		)
		if err := rows.Scan(&it.ID, &it.Title, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan worldcup item: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &it.Metadata); err != nil {
				return nil, fmt.Errorf("invalid metadata for item %s: %w", it.ID, err)
			}
		}
		items = append(items, &it)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
