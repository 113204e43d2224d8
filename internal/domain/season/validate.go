package season

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

var recordValidator = validator.New()

// Normalize brings a freshly decoded record into canonical form: malformed
// matchups are dropped, blank member and owner ids are removed, non-positive
// ranks become absent, non-finite scores become 0 and every team and matchup
// is stamped with the year.
func Normalize(r Record, year int) Record {
	out := Record{
		SeasonID: r.SeasonID,
		Members:  make([]Member, 0, len(r.Members)),
		Teams:    make([]Team, 0, len(r.Teams)),
		Matchups: make([]Matchup, 0, len(r.Matchups)),
	}
	if out.SeasonID <= 0 {
		out.SeasonID = year
	}

	for _, m := range r.Members {
		m.ID = strings.TrimSpace(m.ID)
		if m.ID == "" {
			continue
		}
		out.Members = append(out.Members, m)
	}

	for _, t := range r.Teams {
		owners := make([]string, 0, len(t.OwnerIDs))
		for _, owner := range t.OwnerIDs {
			owner = strings.TrimSpace(owner)
			if owner == "" {
				continue
			}
			owners = append(owners, owner)
		}
		t.OwnerIDs = owners
		t.PrimaryOwnerID = strings.TrimSpace(t.PrimaryOwnerID)
		if t.FinalStandingsRank != nil {
			t.FinalStandingsRank = Rank(*t.FinalStandingsRank)
		}
		t.SeasonYear = year
		out.Teams = append(out.Teams, t)
	}

	for _, m := range r.Matchups {
		if !m.Valid() {
			continue
		}
		m.SeasonYear = year
		home, away := *m.Home, *m.Away
		home.Score = finiteScore(home.Score)
		away.Score = finiteScore(away.Score)
		m.Home, m.Away = &home, &away
		out.Matchups = append(out.Matchups, m)
	}

	return out
}

func finiteScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Validate checks the structural contract the aggregation engine relies on.
func (r Record) Validate() error {
	if err := recordValidator.Struct(r); err != nil {
		return fmt.Errorf("validate season record: %w", err)
	}

	seen := make(map[int]struct{}, len(r.Teams))
	for _, t := range r.Teams {
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("duplicate team id=%d in season=%d", t.ID, r.SeasonID)
		}
		seen[t.ID] = struct{}{}
	}
	for _, m := range r.Matchups {
		if !m.Valid() {
			return fmt.Errorf("malformed matchup in season=%d week=%d", r.SeasonID, m.Week)
		}
	}

	return nil
}
