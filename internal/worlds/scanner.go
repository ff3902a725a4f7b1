package worlds

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MarkerFile identifies a directory as a Minecraft world save.
const MarkerFile = "level.dat"

// World is one named input dataset the renderer consumes. Immutable;
// rebuilt on every scan.
type World struct {
	Name string
	Path string
	Date *time.Time
}

// Dated reports whether the world name carried a parseable date token.
func (w World) Dated() bool {
	return w.Date != nil
}

var dateToken = regexp.MustCompile(`-(\d{2})(\d{2})(\d{2})$`)

// ParseDate extracts a trailing -YYMMDD token from a world name. Year is
// interpreted as 2000+YY. Only range checks are applied (day 1-31, month
// 1-12); calendar validity is not enforced, so Feb 31 parses.
func ParseDate(name string) (time.Time, bool) {
	match := dateToken.FindStringSubmatch(strings.TrimSpace(name))
	if match == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	day, _ := strconv.Atoi(match[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(2000+year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// Scan returns the worlds under dir in render order: subdirectories holding
// a level.dat marker, dated worlds first in ascending date order, undated
// worlds after them in enumeration order.
func Scan(dir string) ([]World, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read worlds directory: %w", err)
	}

	var dated, undated []World
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if _, err := os.Stat(filepath.Join(path, MarkerFile)); err != nil {
			continue
		}
		world := World{Name: entry.Name(), Path: path}
		if date, ok := ParseDate(entry.Name()); ok {
			world.Date = &date
			dated = append(dated, world)
		} else {
			undated = append(undated, world)
		}
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Date.Before(*dated[j].Date)
	})

	return append(dated, undated...), nil
}

// Select filters scanned worlds down to the given names, preserving scan
// order. Unknown names are reported as an error.
func Select(all []World, names []string) ([]World, error) {
	if len(names) == 0 {
		return all, nil
	}
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}
	var out []World
	for _, world := range all {
		if _, ok := wanted[world.Name]; ok {
			out = append(out, world)
			delete(wanted, world.Name)
		}
	}
	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for name := range wanted {
			missing = append(missing, name)
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("unknown worlds: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// DisplayTitle derives a human-readable title from a world name: the date
// token is stripped and separators become spaces.
func DisplayTitle(name string) string {
	base := dateToken.ReplaceAllString(strings.TrimSpace(name), "")
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		default:
			cleaned.WriteRune(r)
			prevSpace = false
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return name
	}
	return cases.Title(language.Und).String(title)
}
