package stats

import (
	"context"
	"log"
	"time"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
)

// Tracker bridges session observers into the archive. Archiving is best
// effort: a failed write is logged and the game carries on.
type Tracker struct {
	repo Repo
}

func NewTracker(repo Repo) *Tracker {
	return &Tracker{repo: repo}
}

// HandleMatchFinished is registered as a session's OnMatchFinished observer.
func (t *Tracker) HandleMatchFinished(summary model.MatchSummary) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.repo.SaveSummary(ctx, &summary); err != nil {
		log.Printf("stats: archive match for %s: %v", summary.Nickname, err)
	}
}
