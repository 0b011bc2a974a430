package brackets

import (
	"context"

	"github.com/Dosada05/worldcup/models"
)

type BuildParams struct {
	ID    string
	Title string
	// Items are seeded in the given order; callers shuffle beforehand if they want random seeding.
	Items []*models.Item
	Size  int
}

type BracketBuilder interface {
	Build(ctx context.Context, params BuildParams) (*models.Tournament, error)
}
