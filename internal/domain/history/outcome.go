package history

type matchOutcome int

const (
	outcomeNone matchOutcome = iota
	outcomeHomeWin
	outcomeAwayWin
	outcomeTie
)

// outcome classifies a matchup. Equal scores are a tie only when both sides
// scored; a 0-0 matchup counts for nobody.
func outcome(homeScore, awayScore float64) matchOutcome {
	switch {
	case homeScore > awayScore:
		return outcomeHomeWin
	case awayScore > homeScore:
		return outcomeAwayWin
	case homeScore > 0 && awayScore > 0:
		return outcomeTie
	default:
		return outcomeNone
	}
}

// WinPercentage returns wins over games played as a percentage, 0 when no games were played.
func WinPercentage(s MemberStats) float64 {
	games := s.Games()
	if games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(games) * 100
}
