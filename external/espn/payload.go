package espn

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/league-history/internal/domain/season"
)

// leaguePayload is the subset of the ESPN league document read by this package.
// The same shape is used by the static historical-data files.
type leaguePayload struct {
	SeasonID int             `json:"seasonId"`
	Members  []memberPayload `json:"members"`
	Teams    []teamPayload   `json:"teams"`
	Schedule []matchPayload  `json:"schedule"`
}

type memberPayload struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DisplayName string `json:"displayName"`
}

type teamPayload struct {
	ID                  int      `json:"id"`
	Owners              []string `json:"owners"`
	PrimaryOwner        string   `json:"primaryOwner"`
	RankCalculatedFinal int      `json:"rankCalculatedFinal"`
}

type matchPayload struct {
	MatchupPeriodID int          `json:"matchupPeriodId"`
	Home            *sidePayload `json:"home"`
	Away            *sidePayload `json:"away"`
	Winner          string       `json:"winner"`
}

type sidePayload struct {
	TeamID      int         `json:"teamId"`
	TotalPoints pointsValue `json:"totalPoints"`
}

// pointsValue accepts a JSON number, a numeric string or null. Anything else decodes to 0.
type pointsValue float64

func (p *pointsValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	text := strings.Trim(string(data), `"`)
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		*p = 0
		return nil
	}
	*p = pointsValue(value)
	return nil
}

// Decode parses a raw ESPN league document into a normalized, validated
// season record. Every failure wraps season.ErrSourceUnavailable.
func Decode(raw []byte, year int) (season.Record, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return season.Record{}, fmt.Errorf("%w: empty payload for season=%d", season.ErrSourceUnavailable, year)
	}

	var payload leaguePayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return season.Record{}, fmt.Errorf("%w: decode season=%d: %v", season.ErrSourceUnavailable, year, err)
	}

	record := season.Normalize(payload.toRecord(year), year)
	if err := record.Validate(); err != nil {
		return season.Record{}, fmt.Errorf("%w: %v", season.ErrSourceUnavailable, err)
	}
	return record, nil
}

func (p leaguePayload) toRecord(year int) season.Record {
	record := season.Record{
		SeasonID: year,
		Members:  make([]season.Member, 0, len(p.Members)),
		Teams:    make([]season.Team, 0, len(p.Teams)),
		Matchups: make([]season.Matchup, 0, len(p.Schedule)),
	}

	for _, m := range p.Members {
		record.Members = append(record.Members, season.Member{
			ID:          m.ID,
			FirstName:   m.FirstName,
			LastName:    m.LastName,
			DisplayName: m.DisplayName,
		})
	}

	for _, t := range p.Teams {
		owners := t.Owners
		if owners == nil {
			owners = []string{}
		}
		record.Teams = append(record.Teams, season.Team{
			ID:                 t.ID,
			OwnerIDs:           owners,
			PrimaryOwnerID:     t.PrimaryOwner,
			FinalStandingsRank: season.Rank(t.RankCalculatedFinal),
		})
	}

	for _, m := range p.Schedule {
		matchup := season.Matchup{Week: m.MatchupPeriodID}
		if m.Home != nil {
			matchup.Home = &season.Side{TeamID: m.Home.TeamID, Score: float64(m.Home.TotalPoints)}
		}
		if m.Away != nil {
			matchup.Away = &season.Side{TeamID: m.Away.TeamID, Score: float64(m.Away.TotalPoints)}
		}
		record.Matchups = append(record.Matchups, matchup)
	}

	return record
}
