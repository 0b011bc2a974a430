package votes

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/Dosada05/worldcup/models"
)

// IdempotencyKey derives the key the collector deduplicates on. It depends only
// on the session, the match and the winner, so a vote re-sent through the
// individual fallback after a half-applied bulk call is counted once.
func IdempotencyKey(sessionID string, rec models.VoteRecord) string {
	h, err := blake2b.New(16, nil)
	if err != nil {
		// only fails for invalid sizes or keys
		panic(err)
	}
	for _, part := range []string{sessionID, rec.MatchID, rec.WinnerID, rec.LoserID} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
