package game

import "github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"

// ApplyStats counts what Apply did, keyed by event type. Skipped counts one
// per participant that had no skater slot.
type ApplyStats struct {
	Applied map[string]int
	Skipped map[string]int
}

// SkippedTotal sums Skipped across event types.
func (s ApplyStats) SkippedTotal() int {
	n := 0
	for _, v := range s.Skipped {
		n += v
	}
	return n
}

// Apply folds plays into the skater rows. Every update is an integer
// increment on an existing slot, so the result does not depend on event
// order. Participants without a slot (goalies, bench penalties, roster gaps)
// are skipped and counted.
func (a *Aggregation) Apply(plays []provider.Play) ApplyStats {
	stats := ApplyStats{Applied: map[string]int{}, Skipped: map[string]int{}}

	bump := func(kind string, playerID int64, inc func(*SkaterRow)) {
		row := a.Slot(playerID)
		if row == nil {
			stats.Skipped[kind]++
			return
		}
		inc(row)
		stats.Applied[kind]++
	}

	for i := range plays {
		p := &plays[i]
		d := p.Details
		if d == nil {
			continue
		}
		switch p.TypeDescKey {
		case provider.EventFaceoff:
			bump(p.TypeDescKey, d.WinningPlayerID, func(r *SkaterRow) { r.FaceoffWins++ })
			bump(p.TypeDescKey, d.LosingPlayerID, func(r *SkaterRow) { r.FaceoffLosses++ })
		case provider.EventHit:
			bump(p.TypeDescKey, d.HittingPlayerID, func(r *SkaterRow) { r.Hits++ })
		case provider.EventBlockedShot:
			bump(p.TypeDescKey, d.BlockingPlayerID, func(r *SkaterRow) { r.Blocks++ })
		case provider.EventPenalty:
			minutes := d.Duration
			bump(p.TypeDescKey, d.CommittedByPlayerID, func(r *SkaterRow) { r.PenaltyMinutes += minutes })
		case provider.EventShotOnGoal:
			bump(p.TypeDescKey, d.ShootingPlayerID, func(r *SkaterRow) { r.Shots++ })
		}
	}
	return stats
}
