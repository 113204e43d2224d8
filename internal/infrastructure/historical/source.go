package historical

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/riskibarqy/league-history/external/espn"
	"github.com/riskibarqy/league-history/internal/domain/season"
)

// Source serves seasons from raw league documents kept on disk as
// <dir>/season-<year>.json.
type Source struct {
	dir string
}

func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Path is the file a season year is read from and snapshotted to.
func Path(dir string, year int) string {
	return filepath.Join(dir, "season-"+strconv.Itoa(year)+".json")
}

func (s *Source) FetchSeason(ctx context.Context, year int) (season.Record, error) {
	if err := ctx.Err(); err != nil {
		return season.Record{}, err
	}

	raw, err := s.ReadRaw(year)
	if err != nil {
		return season.Record{}, err
	}
	return espn.Decode(raw, year)
}

// ReadRaw returns the stored document for year. A missing file is
// season.ErrSourceUnavailable.
func (s *Source) ReadRaw(year int) ([]byte, error) {
	if s.dir == "" {
		return nil, fmt.Errorf("%w: historical data dir is not configured", season.ErrSourceUnavailable)
	}

	path := Path(s.dir, year)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no historical file for season=%d", season.ErrSourceUnavailable, year)
		}
		return nil, fmt.Errorf("%w: read %s: %w", season.ErrSourceUnavailable, path, err)
	}
	return raw, nil
}

// WriteRaw stores a raw document for year, creating dir when needed.
func WriteRaw(dir string, year int, raw []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create historical data dir %s: %w", dir, err)
	}
	path := Path(dir, year)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
