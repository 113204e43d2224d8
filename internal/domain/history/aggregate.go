package history

import (
	"sort"

	"github.com/riskibarqy/league-history/internal/domain/season"
)

type pairKey struct {
	low  string
	high string
}

func newPairKey(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{low: a, high: b}
}

type weekLeader struct {
	memberID string
	score    float64
}

// accumulator owns the cross-season state of a single Aggregate call.
type accumulator struct {
	overrides NameOverrides

	stats      map[string]*MemberStats
	statsOrder []string
	h2h        map[pairKey]*HeadToHeadRecord
	h2hOrder   []pairKey

	highScores []WeeklyHighScore
	finishes   []SeasonFinish
}

// seasonLookup holds the tables scoped to one season.
type seasonLookup struct {
	teamToMember map[int]string
	names        map[string]string
	ranks        map[string]int
	rankOrder    []string
}

// Aggregate folds seasons, in the order given, into cross-season statistics.
// Matchup order inside each record decides weekly high score ties: the first
// scorer to reach the week maximum keeps it.
func Aggregate(seasons []Season, overrides NameOverrides) Result {
	acc := &accumulator{
		overrides: overrides,
		stats:     make(map[string]*MemberStats),
		h2h:       make(map[pairKey]*HeadToHeadRecord),
	}

	for _, s := range seasons {
		acc.addSeason(s)
	}

	return acc.result()
}

func (a *accumulator) addSeason(s Season) {
	lookup := a.buildLookup(s.Record)

	for _, memberID := range lookup.rankOrder {
		a.finishes = append(a.finishes, SeasonFinish{
			MemberID:   memberID,
			MemberName: lookup.nameOf(memberID, a.overrides),
			Season:     s.Year,
			Rank:       lookup.ranks[memberID],
		})
	}

	leaders := make(map[int]weekLeader)
	weekOrder := make([]int, 0, 18)

	for _, m := range s.Record.Matchups {
		if !m.Valid() {
			continue
		}
		homeID, ok := lookup.teamToMember[m.Home.TeamID]
		if !ok {
			continue
		}
		awayID, ok := lookup.teamToMember[m.Away.TeamID]
		if !ok {
			continue
		}
		homeScore, awayScore := m.Home.Score, m.Away.Score

		leader := weekLeader{memberID: homeID, score: homeScore}
		if awayScore > homeScore {
			leader = weekLeader{memberID: awayID, score: awayScore}
		}
		if leader.score > 0 {
			current, seen := leaders[m.Week]
			if !seen {
				weekOrder = append(weekOrder, m.Week)
			}
			if !seen || leader.score > current.score {
				leaders[m.Week] = leader
			}
		}

		home := a.member(homeID, lookup)
		away := a.member(awayID, lookup)

		switch outcome(homeScore, awayScore) {
		case outcomeHomeWin:
			home.Wins++
			away.Losses++
		case outcomeAwayWin:
			away.Wins++
			home.Losses++
		case outcomeTie:
			home.Ties++
			away.Ties++
		}
		home.TotalPoints += homeScore
		away.TotalPoints += awayScore

		a.recordHeadToHead(homeID, awayID, homeScore, awayScore)
	}

	for _, week := range weekOrder {
		leader := leaders[week]
		stats, ok := a.stats[leader.memberID]
		if !ok {
			continue
		}
		stats.HighScores++
		a.highScores = append(a.highScores, WeeklyHighScore{
			Season:     s.Year,
			Week:       week,
			MemberID:   leader.memberID,
			MemberName: stats.MemberName,
			Score:      leader.score,
		})
	}
}

func (a *accumulator) buildLookup(r season.Record) seasonLookup {
	lookup := seasonLookup{
		teamToMember: make(map[int]string, len(r.Teams)),
		names:        make(map[string]string, len(r.Members)),
		ranks:        make(map[string]int, len(r.Teams)),
	}

	for _, m := range r.Members {
		lookup.names[m.ID] = ResolveMemberName(m.ID, m, a.overrides)
	}

	for _, t := range r.Teams {
		owner, ok := ResolveTeamOwner(t)
		if !ok {
			continue
		}
		lookup.teamToMember[t.ID] = owner
		if t.FinalStandingsRank == nil || *t.FinalStandingsRank <= 0 {
			continue
		}
		if _, seen := lookup.ranks[owner]; !seen {
			lookup.rankOrder = append(lookup.rankOrder, owner)
		}
		lookup.ranks[owner] = *t.FinalStandingsRank
	}

	return lookup
}

func (l seasonLookup) nameOf(memberID string, overrides NameOverrides) string {
	if name, ok := l.names[memberID]; ok {
		return name
	}
	if name := overrides[memberID]; name != "" {
		return name
	}
	return UnknownMemberName
}

// member returns the accumulator for memberID, creating it on first sight.
// Name and final rank are taken from the season that creates the entry and are
// never replaced by later seasons.
func (a *accumulator) member(memberID string, lookup seasonLookup) *MemberStats {
	if stats, ok := a.stats[memberID]; ok {
		return stats
	}

	stats := &MemberStats{
		MemberID:   memberID,
		MemberName: lookup.nameOf(memberID, a.overrides),
	}
	if rank, ok := lookup.ranks[memberID]; ok {
		r := rank
		stats.FinalStandingsRank = &r
	}
	a.stats[memberID] = stats
	a.statsOrder = append(a.statsOrder, memberID)
	return stats
}

func (a *accumulator) recordHeadToHead(homeID, awayID string, homeScore, awayScore float64) {
	if homeID == awayID {
		return
	}

	key := newPairKey(homeID, awayID)
	record, ok := a.h2h[key]
	if !ok {
		record = &HeadToHeadRecord{Member1: key.low, Member2: key.high}
		a.h2h[key] = record
		a.h2hOrder = append(a.h2hOrder, key)
	}

	winner := ""
	switch outcome(homeScore, awayScore) {
	case outcomeHomeWin:
		winner = homeID
	case outcomeAwayWin:
		winner = awayID
	case outcomeTie:
		record.Ties++
		return
	default:
		return
	}

	if winner == record.Member1 {
		record.Member1Wins++
	} else {
		record.Member2Wins++
	}
}

func (a *accumulator) result() Result {
	out := Result{
		MemberStats:      make([]MemberStats, 0, len(a.statsOrder)),
		HeadToHead:       make([]HeadToHeadRecord, 0, len(a.h2hOrder)),
		WeeklyHighScores: make([]WeeklyHighScore, 0, len(a.highScores)),
		SeasonFinishes:   make([]SeasonFinish, 0, len(a.finishes)),
	}

	for _, id := range a.statsOrder {
		out.MemberStats = append(out.MemberStats, *a.stats[id])
	}
	for _, key := range a.h2hOrder {
		out.HeadToHead = append(out.HeadToHead, *a.h2h[key])
	}

	out.WeeklyHighScores = append(out.WeeklyHighScores, a.highScores...)
	sort.SliceStable(out.WeeklyHighScores, func(i, j int) bool {
		return out.WeeklyHighScores[i].Score > out.WeeklyHighScores[j].Score
	})

	out.SeasonFinishes = append(out.SeasonFinishes, a.finishes...)
	sort.SliceStable(out.SeasonFinishes, func(i, j int) bool {
		if out.SeasonFinishes[i].Season != out.SeasonFinishes[j].Season {
			return out.SeasonFinishes[i].Season < out.SeasonFinishes[j].Season
		}
		return out.SeasonFinishes[i].Rank < out.SeasonFinishes[j].Rank
	})

	return out
}
