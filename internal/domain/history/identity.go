package history

import (
	"strings"

	"github.com/riskibarqy/league-history/internal/domain/season"
)

// ResolveTeamOwner returns the member that owns a team: the primary owner when
// set, otherwise the first listed owner. ok is false for an unattributed team.
func ResolveTeamOwner(team season.Team) (string, bool) {
	if owner := strings.TrimSpace(team.PrimaryOwnerID); owner != "" {
		return owner, true
	}
	if len(team.OwnerIDs) > 0 && strings.TrimSpace(team.OwnerIDs[0]) != "" {
		return strings.TrimSpace(team.OwnerIDs[0]), true
	}
	return "", false
}

// ResolveMemberName picks the override for memberID, then the source display
// name, then "first last", and falls back to UnknownMemberName.
func ResolveMemberName(memberID string, raw season.Member, overrides NameOverrides) string {
	if name, ok := overrides[memberID]; ok && name != "" {
		return name
	}
	if raw.DisplayName != "" {
		return raw.DisplayName
	}
	if full := strings.TrimSpace(raw.FirstName + " " + raw.LastName); full != "" {
		return full
	}
	return UnknownMemberName
}
