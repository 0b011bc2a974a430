package repositories

// Имена ограничений из db/schema.go; по ним различаются ошибки pq.
const (
	constraintItemStatsPK     = "item_stats_pkey"
	constraintItemStatsItemFK = "item_stats_item_fkey"
	constraintVoteIdempotency = "votes_idempotency_key_key"
	constraintVoteWinnerFK    = "votes_winner_fkey"
	constraintVoteLoserFK     = "votes_loser_fkey"
	constraintPlaysPK         = "plays_pkey"

	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)
