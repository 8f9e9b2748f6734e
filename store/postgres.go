package store

import (
	"context"
	"embed"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/feltworks/feltpoker/domain/table"
)

//go:embed schema.sql
var schema embed.FS

// DB is the optional Postgres statistics store. The platform runs fine
// without it; the harness only opens it when a connection string is
// configured.
type DB struct{ *pgxpool.Pool }

// Open connects a pool to the given DSN.
func Open(ctx context.Context, dsn string) (*DB, error) {
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

// Migrate applies the embedded schema. Idempotent.
func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

// UpsertPlayerStats writes one player's aggregates, replacing any previous
// row. Stats are absolute counters, so last-writer-wins is correct.
func (db *DB) UpsertPlayerStats(ctx context.Context, id uuid.UUID, name string, s table.Stats) error {
	if _, err := db.Exec(ctx, `
        INSERT INTO players(id, name) VALUES ($1,$2)
        ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
    `, id, name); err != nil {
		return err
	}
	_, err := db.Exec(ctx, `
        INSERT INTO player_stats(player_id, hands_played, hands_won, winnings, vpip_hands, pfr_hands, peak_chips, sessions)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (player_id) DO UPDATE
          SET hands_played = EXCLUDED.hands_played,
              hands_won    = EXCLUDED.hands_won,
              winnings     = EXCLUDED.winnings,
              vpip_hands   = EXCLUDED.vpip_hands,
              pfr_hands    = EXCLUDED.pfr_hands,
              peak_chips   = EXCLUDED.peak_chips,
              sessions     = EXCLUDED.sessions,
              updated_at   = now()
    `, id, int64(s.HandsPlayed), int64(s.HandsWon), s.Winnings, int64(s.VPIPHands), int64(s.PFRHands), int64(s.PeakChips), int64(s.Sessions))
	return err
}

// SaveHandHistory stores an encoded hand history blob under its hand id.
func (db *DB) SaveHandHistory(ctx context.Context, handID uint64, variantTag uint8, history []byte) error {
	_, err := db.Exec(ctx, `
        INSERT INTO hands(hand_id, variant_tag, history) VALUES ($1,$2,$3)
        ON CONFLICT (hand_id) DO NOTHING
    `, int64(handID), int16(variantTag), history)
	return err
}

// LoadStats reads every player's aggregates back, most winnings first.
func (db *DB) LoadStats(ctx context.Context) ([]table.StatsEntry, error) {
	rows, err := db.Query(ctx, `
        SELECT p.id, p.name, s.hands_played, s.hands_won, s.winnings, s.vpip_hands, s.pfr_hands, s.peak_chips, s.sessions
          FROM players p JOIN player_stats s ON s.player_id = p.id
         ORDER BY s.winnings DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []table.StatsEntry
	for rows.Next() {
		var e table.StatsEntry
		var played, won, vpip, pfr, peak, sessions int64
		if err := rows.Scan(&e.ID, &e.Name, &played, &won, &e.Stats.Winnings, &vpip, &pfr, &peak, &sessions); err != nil {
			return nil, err
		}
		e.Stats.HandsPlayed = uint32(played)
		e.Stats.HandsWon = uint32(won)
		e.Stats.VPIPHands = uint32(vpip)
		e.Stats.PFRHands = uint32(pfr)
		e.Stats.PeakChips = uint64(peak)
		e.Stats.Sessions = uint32(sessions)
		out = append(out, e)
	}
	return out, rows.Err()
}
