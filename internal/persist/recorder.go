package persist

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Participant is one seated connection's final standing in a closed room.
type Participant struct {
	Name   string
	Team   int
	HeroID int
	Gold   int
}

// MatchSummary is everything recorded about a battle once its room
// closes. WinnerTeam is 0 (unknown) unless a surrounding system
// supplies one — the core simulation in spec.md has no win condition
// of its own, only the entities and combat that a win condition would
// be built from.
type MatchSummary struct {
	RoomID       int
	Duration     time.Duration
	WinnerTeam   int
	Participants []Participant
}

// Recorder queues match summaries and writes them to Postgres on a
// background goroutine, so a closing room's reap never blocks on a
// database round trip. Grounded on the teacher's account-repo bcrypt
// pattern only in spirit (a dedicated type per concern); the queue
// itself follows internal/server.Session.Send's
// non-blocking-enqueue-or-drop shape.
type Recorder struct {
	db    *DB
	log   *zap.Logger
	queue chan MatchSummary
}

func NewRecorder(db *DB, log *zap.Logger) *Recorder {
	return &Recorder{
		db:    db,
		log:   log,
		queue: make(chan MatchSummary, 64),
	}
}

// RecordMatch enqueues a summary for background persistence. Never
// blocks: a saturated queue drops the summary and logs a warning
// rather than stall the caller's tick.
func (rec *Recorder) RecordMatch(summary MatchSummary) {
	select {
	case rec.queue <- summary:
	default:
		rec.log.Warn("match history queue full, dropping summary", zap.Int("room_id", summary.RoomID))
	}
}

// Run drains the queue until stop fires.
func (rec *Recorder) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case summary := <-rec.queue:
			if err := rec.write(summary); err != nil {
				rec.log.Error("match history write failed", zap.Int("room_id", summary.RoomID), zap.Error(err))
			}
		}
	}
}

func (rec *Recorder) write(summary MatchSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := rec.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var matchID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO match_history (room_id, duration_ms, winner_team) VALUES ($1, $2, $3) RETURNING id`,
		summary.RoomID, summary.Duration.Milliseconds(), summary.WinnerTeam,
	).Scan(&matchID)
	if err != nil {
		return err
	}

	for _, p := range summary.Participants {
		if _, err := tx.Exec(ctx,
			`INSERT INTO match_participants (match_id, name, team, hero_id, gold) VALUES ($1, $2, $3, $4, $5)`,
			matchID, p.Name, p.Team, p.HeroID, p.Gold,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
