package postgres

import "time"

type seasonArchiveTableModel struct {
	ID          int64     `db:"id"`
	LeagueID    string    `db:"league_id"`
	SeasonYear  int       `db:"season_year"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	FetchedAt   time.Time `db:"fetched_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type seasonArchiveInsertModel struct {
	LeagueID    string    `db:"league_id"`
	SeasonYear  int       `db:"season_year"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	FetchedAt   time.Time `db:"fetched_at"`
}
