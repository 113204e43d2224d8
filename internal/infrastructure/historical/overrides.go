package historical

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/league-history/internal/domain/history"
	"github.com/riskibarqy/league-history/internal/platform/logging"
)

// LoadNameOverrides reads the {memberId: name} table at path. A missing or
// unreadable table yields an empty one; it never fails startup.
func LoadNameOverrides(path string, logger *logging.Logger) history.NameOverrides {
	if logger == nil {
		logger = logging.Default()
	}
	out := history.NameOverrides{}
	if strings.TrimSpace(path) == "" {
		return out
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("member name overrides not found, using provider names", "path", path)
		} else {
			logger.Warn("read member name overrides failed", "path", path, "error", err)
		}
		return out
	}

	var table map[string]string
	if err := sonic.Unmarshal(raw, &table); err != nil {
		logger.Warn("decode member name overrides failed", "path", path, "error", err)
		return out
	}

	for memberID, name := range table {
		memberID = strings.TrimSpace(memberID)
		name = strings.TrimSpace(name)
		if memberID == "" || name == "" {
			continue
		}
		out[memberID] = name
	}
	logger.Info("member name overrides loaded", "path", path, "count", len(out))
	return out
}
