// Package seed keeps the teams and players tables current. Game ingestion
// relies on it to satisfy foreign keys before any stat row is written.
package seed

import "fmt"

// SeedResult tracks counts and errors from a seeding operation.
type SeedResult struct {
	TeamsUpserted    int
	PlayersInserted  int
	PlayersUpdated   int
	PlayersUnchanged int
	Errors           []string
}

// Add merges another SeedResult into this one.
func (r *SeedResult) Add(other SeedResult) {
	r.TeamsUpserted += other.TeamsUpserted
	r.PlayersInserted += other.PlayersInserted
	r.PlayersUpdated += other.PlayersUpdated
	r.PlayersUnchanged += other.PlayersUnchanged
	r.Errors = append(r.Errors, other.Errors...)
}

// CountPlayer records the outcome of one player upsert.
func (r *SeedResult) CountPlayer(o UpsertOutcome) {
	switch o {
	case UpsertInserted:
		r.PlayersInserted++
	case UpsertUpdated:
		r.PlayersUpdated++
	case UpsertUnchanged:
		r.PlayersUnchanged++
	}
}

// AddErrorf records a formatted error message.
func (r *SeedResult) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Err returns nil when no errors were recorded, otherwise an error carrying
// the count and the first message.
func (r *SeedResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("%d seed error(s), first: %s", len(r.Errors), r.Errors[0])
}

// Summary returns a human-readable summary of the seed operation.
func (r *SeedResult) Summary() string {
	return fmt.Sprintf(
		"teams=%d players_inserted=%d players_updated=%d players_unchanged=%d errors=%d",
		r.TeamsUpserted, r.PlayersInserted, r.PlayersUpdated, r.PlayersUnchanged,
		len(r.Errors),
	)
}
