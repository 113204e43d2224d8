package season

// Member is a league participant as reported by a season source.
type Member struct {
	ID          string `json:"id" validate:"required"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// Team is a season-scoped roster entity. IDs are only unique within one season.
type Team struct {
	ID                 int      `json:"id"`
	SeasonYear         int      `json:"seasonYear"`
	OwnerIDs           []string `json:"owners"`
	PrimaryOwnerID     string   `json:"primaryOwner,omitempty"`
	FinalStandingsRank *int     `json:"finalStandingsRank,omitempty" validate:"omitempty,gte=1"`
}

// Side is one team's participation in a matchup.
type Side struct {
	TeamID int     `json:"teamId"`
	Score  float64 `json:"totalPoints"`
}

// Matchup is one scheduled game in a given week of a season.
// A nil Home or Away marks the matchup as malformed.
type Matchup struct {
	SeasonYear int   `json:"seasonYear"`
	Week       int   `json:"matchupPeriodId"`
	Home       *Side `json:"home,omitempty"`
	Away       *Side `json:"away,omitempty"`
}

// Valid reports whether both sides of the matchup are present.
func (m Matchup) Valid() bool {
	return m.Home != nil && m.Away != nil
}

// Record is the canonical shape every season source produces.
type Record struct {
	SeasonID int       `json:"seasonId" validate:"required"`
	Members  []Member  `json:"members" validate:"dive"`
	Teams    []Team    `json:"teams" validate:"dive"`
	Matchups []Matchup `json:"matchups"`
}

// Rank returns a pointer to v, or nil when v is not a usable final rank.
func Rank(v int) *int {
	if v <= 0 {
		return nil
	}
	return &v
}
