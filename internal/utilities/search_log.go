package utilities

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/data"

	"github.com/pkg/errors"
)

const searchLogTimeFormat string = "2006-01-02 15:04:05"

// SearchLogger appends one human readable line per search to a side file.
type SearchLogger interface {
	LogSearch(ctx context.Context, result *data.SearchResult) error
}

type searchLog struct {
	sync.Mutex
	config struct {
		file string
		mode os.FileMode
	}
	now func() time.Time
}

// NewSearchLog creates a search log, it's a no-op until SEARCH_LOG_FILE is
// configured; a func() time.Time parameter replaces the clock.
func NewSearchLog(parameters ...any) interface {
	internal.Configurer
	SearchLogger
} {
	s := &searchLog{now: time.Now}
	s.config.mode = 0o644
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case func() time.Time:
			s.now = p
		}
	}
	return s
}

func (s *searchLog) Configure(envs map[string]string) error {
	s.Lock()
	defer s.Unlock()

	if file, ok := envs["SEARCH_LOG_FILE"]; ok {
		s.config.file = file
	}
	if mode, ok := envs["SEARCH_LOG_FILE_MODE"]; ok {
		i, err := strconv.ParseUint(mode, 8, 32)
		if err != nil {
			return errors.Wrapf(err, "invalid SEARCH_LOG_FILE_MODE %q", mode)
		}
		s.config.mode = os.FileMode(i)
	}
	return nil
}

// FormatSearch returns the line written for result, without the newline.
func FormatSearch(t time.Time, result *data.SearchResult) string {
	return fmt.Sprintf("%s | %s | %s | comp=%d | tempo=%.6fs",
		t.Format(searchLogTimeFormat), result.Kind, result.Criterion,
		result.Comparisons, result.Elapsed.Seconds())
}

func (s *searchLog) LogSearch(ctx context.Context, result *data.SearchResult) error {
	s.Lock()
	defer s.Unlock()

	if s.config.file == "" || result == nil {
		return nil
	}
	file, err := os.OpenFile(s.config.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, s.config.mode)
	if err != nil {
		return errors.Wrap(err, "error while opening search log")
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, FormatSearch(s.now(), result)); err != nil {
		return errors.Wrap(err, "error while writing search log")
	}
	return nil
}
