// Package tle parses NORAD two-line element text and manages time-sliced
// collections of TLE files that are swapped as simulated time advances.
package tle

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/signalsfoundry/orbitviz/internal/logging"
)

// ErrNoEntries reports input that contained no parseable TLE triplet.
var ErrNoEntries = errors.New("tle: no parseable entries")

// Entry is a single satellite's two-line element set plus the identity
// fields extracted from it.
type Entry struct {
	Name          string
	CatalogNumber int
	Epoch         time.Time
	Line1         string
	Line2         string
}

// Parse reads 3-line NORAD TLE format (name line followed by two data lines
// per satellite) from r. Malformed triplets are skipped with a warning so
// one bad satellite never rejects the rest of the upload.
func Parse(r io.Reader, log logging.Logger) ([]Entry, error) {
	if log == nil {
		log = logging.Noop()
	}
	ctx := context.Background()

	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("tle: reading input: %w", err)
	}

	var entries []Entry
	for i := 0; i+2 < len(lines); {
		name := strings.TrimSpace(lines[i])
		line1 := lines[i+1]
		line2 := lines[i+2]

		if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
			log.Warn(ctx, "skipping malformed TLE triplet",
				logging.Int("line_index", i), logging.String("name", name))
			i++
			continue
		}
		if len(line1) < 32 {
			log.Warn(ctx, "skipping TLE with short line 1", logging.String("name", name))
			i += 3
			continue
		}

		catalog, err := strconv.Atoi(strings.TrimSpace(line1[2:7]))
		if err != nil {
			log.Warn(ctx, "skipping TLE with invalid catalog number",
				logging.String("name", name), logging.String("field", line1[2:7]))
			i += 3
			continue
		}

		epoch, err := parseEpoch(strings.TrimSpace(line1[18:32]))
		if err != nil {
			log.Warn(ctx, "skipping TLE with invalid epoch",
				logging.String("name", name), logging.String("error", err.Error()))
			i += 3
			continue
		}

		entries = append(entries, Entry{
			Name:          name,
			CatalogNumber: catalog,
			Epoch:         epoch,
			Line1:         line1,
			Line2:         line2,
		})
		i += 3
	}

	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	return entries, nil
}

// parseEpoch converts a TLE epoch in YYDDD.DDDDDDDD form to a time.Time.
// Years 57-99 map to the 1900s, 00-56 to the 2000s.
func parseEpoch(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("epoch %q too short", s)
	}

	year, err := strconv.Atoi(s[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("epoch year %q: %w", s[:2], err)
	}
	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}

	dayOfYear, err := strconv.ParseFloat(s[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("epoch day %q: %w", s[2:], err)
	}

	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return start.Add(time.Duration((dayOfYear - 1) * float64(24*time.Hour))), nil
}
