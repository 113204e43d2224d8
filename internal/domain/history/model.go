package history

import "github.com/riskibarqy/league-history/internal/domain/season"

// UnknownMemberName is used when a member has no name information in a season.
const UnknownMemberName = "Unknown"

// NameOverrides maps a member id to the display name that replaces the source's own.
// A nil table is valid and behaves like an empty one.
type NameOverrides map[string]string

// Season pairs a record with the year it was requested for.
type Season struct {
	Record season.Record
	Year   int
}

// MemberStats is one member's record across every processed season.
type MemberStats struct {
	MemberID           string  `json:"memberId"`
	MemberName         string  `json:"memberName"`
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	Ties               int     `json:"ties"`
	TotalPoints        float64 `json:"totalPoints"`
	HighScores         int     `json:"highScores"`
	FinalStandingsRank *int    `json:"finalStandingsRank,omitempty"`
}

// Games returns the number of decided or tied games the member played.
func (s MemberStats) Games() int {
	return s.Wins + s.Losses + s.Ties
}

// HeadToHeadRecord is the ledger between two members. Member1 < Member2 always holds.
type HeadToHeadRecord struct {
	Member1     string `json:"member1"`
	Member2     string `json:"member2"`
	Member1Wins int    `json:"member1Wins"`
	Member2Wins int    `json:"member2Wins"`
	Ties        int    `json:"ties"`
}

// WeeklyHighScore is the single highest scorer of one season week.
type WeeklyHighScore struct {
	Season     int     `json:"season"`
	Week       int     `json:"week"`
	MemberID   string  `json:"memberId"`
	MemberName string  `json:"memberName"`
	Score      float64 `json:"score"`
}

// SeasonFinish is a member's final rank in one season.
type SeasonFinish struct {
	MemberID   string `json:"memberId"`
	MemberName string `json:"memberName"`
	Season     int    `json:"season"`
	Rank       int    `json:"rank"`
}

// Result is the output of one aggregation run.
type Result struct {
	MemberStats      []MemberStats      `json:"memberStats"`
	HeadToHead       []HeadToHeadRecord `json:"headToHead"`
	WeeklyHighScores []WeeklyHighScore  `json:"weeklyHighScores"`
	SeasonFinishes   []SeasonFinish     `json:"seasonFinishes"`
}

// FinishSummary counts one member's season-ending placements.
type FinishSummary struct {
	MemberID     string `json:"memberId"`
	MemberName   string `json:"memberName"`
	First        int    `json:"first"`
	Second       int    `json:"second"`
	Third        int    `json:"third"`
	Last         int    `json:"last"`
	TotalSeasons int    `json:"totalSeasons"`
}
