package history

import "sort"

// SummarizeFinishes counts podium and last-place finishes per member. The
// largest rank reported in a season stands in for that season's league size,
// so in a tiny league one finish can count as both third and last.
func SummarizeFinishes(finishes []SeasonFinish) []FinishSummary {
	maxRank := make(map[int]int)
	for _, f := range finishes {
		if f.Rank > maxRank[f.Season] {
			maxRank[f.Season] = f.Rank
		}
	}

	byMember := make(map[string]*FinishSummary)
	order := make([]string, 0)
	for _, f := range finishes {
		summary, ok := byMember[f.MemberID]
		if !ok {
			summary = &FinishSummary{MemberID: f.MemberID, MemberName: f.MemberName}
			byMember[f.MemberID] = summary
			order = append(order, f.MemberID)
		}

		summary.TotalSeasons++
		switch f.Rank {
		case 1:
			summary.First++
		case 2:
			summary.Second++
		case 3:
			summary.Third++
		}

		last, ok := maxRank[f.Season]
		if !ok || last == 0 {
			last = f.Rank
		}
		if f.Rank == last {
			summary.Last++
		}
	}

	out := make([]FinishSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byMember[id])
	}
	SortFinishSummaries(out)
	return out
}

// SortFinishSummaries orders by championships, then runner-up, then third place, all descending.
func SortFinishSummaries(items []FinishSummary) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].First != items[j].First {
			return items[i].First > items[j].First
		}
		if items[i].Second != items[j].Second {
			return items[i].Second > items[j].Second
		}
		return items[i].Third > items[j].Third
	})
}
