package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-history/internal/domain/season"
	qb "github.com/riskibarqy/league-history/internal/platform/querybuilder"
)

const seasonArchiveTable = "season_archives"

const upsertSeasonArchiveSuffix = `ON CONFLICT (league_id, season_year)
DO UPDATE SET
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    fetched_at = EXCLUDED.fetched_at,
    updated_at = NOW()`

type SeasonArchiveRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSeasonArchiveRepository(db *sqlx.DB) *SeasonArchiveRepository {
	return &SeasonArchiveRepository{db: db, now: time.Now}
}

func (r *SeasonArchiveRepository) Get(ctx context.Context, leagueID string, year int) (season.Archive, bool, error) {
	query, args, err := qb.Select("*").From(seasonArchiveTable).
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("season_year", year),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Archive{}, false, fmt.Errorf("build get season archive query: %w", err)
	}

	var row seasonArchiveTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Archive{}, false, nil
		}
		return season.Archive{}, false, fmt.Errorf("get season archive league=%s year=%d: %w", leagueID, year, err)
	}

	return season.Archive{
		LeagueID:    row.LeagueID,
		Year:        row.SeasonYear,
		Payload:     []byte(row.Payload),
		PayloadHash: row.PayloadHash,
		FetchedAt:   row.FetchedAt,
	}, true, nil
}

func (r *SeasonArchiveRepository) Upsert(ctx context.Context, archive season.Archive) error {
	insertModel, err := r.toInsertModel(archive)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel(seasonArchiveTable, insertModel, upsertSeasonArchiveSuffix)
	if err != nil {
		return fmt.Errorf("build upsert season archive query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert season archive league=%s year=%d: %w", archive.LeagueID, archive.Year, err)
	}
	return nil
}

func (r *SeasonArchiveRepository) toInsertModel(archive season.Archive) (seasonArchiveInsertModel, error) {
	leagueID := strings.TrimSpace(archive.LeagueID)
	if leagueID == "" {
		return seasonArchiveInsertModel{}, fmt.Errorf("season archive league id is required")
	}
	if len(archive.Payload) == 0 {
		return seasonArchiveInsertModel{}, fmt.Errorf("season archive payload is empty league=%s year=%d", leagueID, archive.Year)
	}

	hash := archive.PayloadHash
	if hash == "" {
		hash = season.PayloadHash(archive.Payload)
	}
	fetchedAt := archive.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = r.now().UTC()
	}

	return seasonArchiveInsertModel{
		LeagueID:    leagueID,
		SeasonYear:  archive.Year,
		Payload:     string(archive.Payload),
		PayloadHash: hash,
		FetchedAt:   fetchedAt,
	}, nil
}
