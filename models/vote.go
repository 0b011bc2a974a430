package models

// VoteRecord is one head-to-head decision waiting for delivery.
// LoserID is empty when the opponent was a bye.
type VoteRecord struct {
	WinnerID       string `json:"winnerId"`
	LoserID        string `json:"loserId,omitempty"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
	MatchID        string `json:"-"`
}

// BulkVoteRequest is the body of the bulk submission call.
type BulkVoteRequest struct {
	Votes []VoteRecord `json:"votes"`
}

// BulkVoteResult is returned by the bulk endpoint and reported by the deliverer.
type BulkVoteResult struct {
	SuccessfulVotes int `json:"successfulVotes"`
	FailedVotes     int `json:"failedVotes"`
}

// BeaconPayload is sent over the one-way channel on page teardown.
type BeaconPayload struct {
	Votes      []VoteRecord `json:"votes"`
	WorldcupID string       `json:"worldcupId"`
	Timestamp  int64        `json:"timestamp"`
}
