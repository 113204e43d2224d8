package history

import "sort"

// WeekScore is one attributed positive score in a week.
type WeekScore struct {
	MemberID   string  `json:"memberId"`
	MemberName string  `json:"memberName"`
	TeamID     int     `json:"teamId"`
	Score      float64 `json:"score"`
}

// WeekSummary lists every positive score of a week, highest first, with the week's winner.
type WeekSummary struct {
	Week       int         `json:"week"`
	MemberID   string      `json:"memberId"`
	MemberName string      `json:"memberName"`
	Score      float64     `json:"score"`
	AllScores  []WeekScore `json:"allScores"`
}

// HighScoreCount is the number of weeks a member topped within one season.
type HighScoreCount struct {
	MemberID       string `json:"memberId"`
	MemberName     string `json:"memberName"`
	HighScoreCount int    `json:"highScoreCount"`
}

// SeasonWeeks is the per-week breakdown of one season, used to cross-check
// the weekly high scores produced by Aggregate.
type SeasonWeeks struct {
	Year           int              `json:"year"`
	TotalWeeks     int              `json:"totalWeeks"`
	WeeklyWinners  []WeekSummary    `json:"weeklyWinners"`
	HighScoreStats []HighScoreCount `json:"highScoreStats"`
}

// WeeklyBreakdown groups the positive scores of one season by week. Ownership
// and names resolve exactly as in Aggregate, and equal top scores go to the
// score listed first, home before away.
func WeeklyBreakdown(s Season, overrides NameOverrides) SeasonWeeks {
	lookup := (&accumulator{overrides: overrides}).buildLookup(s.Record)

	byWeek := make(map[int][]WeekScore)
	weeks := make([]int, 0, 18)
	add := func(week int, memberID string, teamID int, score float64) {
		if score <= 0 {
			return
		}
		if _, ok := byWeek[week]; !ok {
			weeks = append(weeks, week)
		}
		byWeek[week] = append(byWeek[week], WeekScore{
			MemberID:   memberID,
			MemberName: lookup.nameOf(memberID, overrides),
			TeamID:     teamID,
			Score:      score,
		})
	}

	for _, m := range s.Record.Matchups {
		if !m.Valid() {
			continue
		}
		homeID, homeOK := lookup.teamToMember[m.Home.TeamID]
		awayID, awayOK := lookup.teamToMember[m.Away.TeamID]
		if !homeOK || !awayOK {
			continue
		}
		add(m.Week, homeID, m.Home.TeamID, m.Home.Score)
		add(m.Week, awayID, m.Away.TeamID, m.Away.Score)
	}
	sort.Ints(weeks)

	out := SeasonWeeks{
		Year:           s.Year,
		TotalWeeks:     len(weeks),
		WeeklyWinners:  make([]WeekSummary, 0, len(weeks)),
		HighScoreStats: make([]HighScoreCount, 0),
	}

	counts := make(map[string]*HighScoreCount)
	countOrder := make([]string, 0)
	for _, week := range weeks {
		scores := byWeek[week]
		sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
		winner := scores[0]

		out.WeeklyWinners = append(out.WeeklyWinners, WeekSummary{
			Week:       week,
			MemberID:   winner.MemberID,
			MemberName: winner.MemberName,
			Score:      winner.Score,
			AllScores:  scores,
		})

		count, ok := counts[winner.MemberID]
		if !ok {
			count = &HighScoreCount{MemberID: winner.MemberID, MemberName: winner.MemberName}
			counts[winner.MemberID] = count
			countOrder = append(countOrder, winner.MemberID)
		}
		count.HighScoreCount++
	}

	for _, id := range countOrder {
		out.HighScoreStats = append(out.HighScoreStats, *counts[id])
	}
	sort.SliceStable(out.HighScoreStats, func(i, j int) bool {
		return out.HighScoreStats[i].HighScoreCount > out.HighScoreStats[j].HighScoreCount
	})

	return out
}
