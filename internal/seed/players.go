package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/retry"
)

// PlayerUpserter fetches a player's profile and upserts it inside the
// caller's transaction.
type PlayerUpserter struct {
	provider provider.Provider
	exec     *retry.Executor
	logger   *slog.Logger
}

// NewPlayerUpserter creates a PlayerUpserter.
func NewPlayerUpserter(p provider.Provider, exec *retry.Executor, logger *slog.Logger) *PlayerUpserter {
	return &PlayerUpserter{provider: p, exec: exec, logger: logger}
}

// EnsurePlayer guarantees a players row for playerID exists and reflects the
// provider's current profile. Profile fetches go through the retry executor.
func (u *PlayerUpserter) EnsurePlayer(ctx context.Context, tx db.Querier, playerID int64) (UpsertOutcome, error) {
	profile, err := retry.Call(ctx, u.exec, fmt.Sprintf("player landing %d", playerID),
		func(ctx context.Context) (*provider.Player, error) {
			return u.provider.PlayerProfile(ctx, playerID)
		})
	if err != nil {
		return 0, err
	}

	outcome, err := UpsertPlayer(ctx, tx, *profile)
	if err != nil {
		return 0, err
	}
	u.logger.Debug("player upserted", "player_id", playerID, "outcome", outcome)
	return outcome, nil
}
