package usecase

import (
	"context"

	"github.com/riskibarqy/hoopstats/internal/domain/stats"
)

// StatsProvider is the read side of the league site.
type StatsProvider interface {
	FetchSeasonPlayers(ctx context.Context, endpoint string) ([]stats.PlayerTotals, error)
	FetchAllTimeList(ctx context.Context, listID int64) ([]stats.PlayerTotals, error)
	StreamEvents(maxPages int) EventStream
}

// ProfileProvider looks up display data for a single player or team.
type ProfileProvider interface {
	FetchPlayerProfile(ctx context.Context, id int64) (Profile, error)
	FetchTeamProfile(ctx context.Context, id int64) (Profile, error)
}

type Profile struct {
	ID   int64
	Name string
	Slug string
	URL  string
}

// ExternalEvent is one game with its rows already extracted. Err is set when
// the payload could not be read as an event at all.
type ExternalEvent struct {
	ID     int64
	Date   string
	Source string
	Rows   []stats.PlayerGameRow
	Err    error
}

// EventStream yields the game history one page at a time.
type EventStream interface {
	Next(ctx context.Context) bool
	Events() []ExternalEvent
	PageNumber() int
	Err() error
}
