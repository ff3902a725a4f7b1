package snapshots

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"chunklapse/internal/services"
)

// Pattern recognizes the snapshot files Chunky writes for one scene.
type Pattern struct {
	scene    string
	numbered *regexp.Regexp
	wildcard bool
}

// Scene returns the scene name the pattern was derived for.
func (p Pattern) Scene() string { return p.scene }

// Wildcard reports whether no numbered example file existed when the
// pattern was detected (a normal state on a first-ever run).
func (p Pattern) Wildcard() bool { return p.wildcard }

// SequenceValue extracts the numeric progress indicator from a snapshot
// filename, when present.
func (p Pattern) SequenceValue(name string) (int, bool) {
	match := p.numbered.FindStringSubmatch(name)
	if match == nil {
		return 0, false
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return value, true
}

func numberedPattern(scene string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(scene) + `-(\d+)\.png$`)
}

func annotatedPattern(scene string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(scene) + `-(\d+)-(.+)\.png$`)
}

// DetectPattern inspects existing snapshot files for a scene and records the
// numeric template; with no example files it defaults to a wildcard
// template. It never fails: an unreadable or empty directory is the normal
// first-run state.
func DetectPattern(scene, snapshotDir string) Pattern {
	pattern := Pattern{scene: scene, numbered: numberedPattern(scene), wildcard: true}
	entries, err := os.ReadDir(snapshotDir)
	if err != nil {
		return pattern
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if pattern.numbered.MatchString(entry.Name()) {
			pattern.wildcard = false
			break
		}
	}
	return pattern
}

type candidate struct {
	path     string
	name     string
	sequence int
	numbered bool
	modTime  time.Time
}

// RenameLatest renames the most recently written snapshot of a scene so it
// carries the world name: scene-<n>.png becomes scene-<n>-<world>.png. The
// newest file by modification time is chosen, not the highest number, since
// the renderer may overwrite one canonical filename per increment. When no
// unrenamed snapshot exists the call is a no-op and returns an empty path;
// a failing rename is tagged services.ErrRename for the caller to log.
func RenameLatest(scene, world, snapshotDir string) (string, error) {
	newest, err := newestUnrenamed(scene, snapshotDir)
	if err != nil {
		return "", services.Wrap(services.ErrRename, "snapshot", "scan "+snapshotDir, world, err)
	}
	if newest == nil {
		return "", nil
	}

	var target string
	if newest.numbered {
		target = fmt.Sprintf("%s-%d-%s.png", scene, newest.sequence, world)
	} else {
		ext := filepath.Ext(newest.name)
		target = strings.TrimSuffix(newest.name, ext) + "-" + world + ext
	}
	targetPath := filepath.Join(snapshotDir, target)

	if err := os.Rename(newest.path, targetPath); err != nil {
		return "", services.Wrap(services.ErrRename, "snapshot", "rename "+newest.name, world, err)
	}
	return targetPath, nil
}

func newestUnrenamed(scene, snapshotDir string) (*candidate, error) {
	entries, err := os.ReadDir(snapshotDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	numbered := numberedPattern(scene)
	annotated := annotatedPattern(scene)
	prefix := scene + "-"

	var found []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".png") {
			continue
		}
		if annotated.MatchString(name) {
			continue
		}
		cand := candidate{path: filepath.Join(snapshotDir, name), name: name}
		if match := numbered.FindStringSubmatch(name); match != nil {
			cand.sequence, _ = strconv.Atoi(match[1])
			cand.numbered = true
		} else if name != scene+".png" && !strings.HasPrefix(name, prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		cand.modTime = info.ModTime()
		found = append(found, cand)
	}
	if len(found) == 0 {
		return nil, nil
	}

	newest := 0
	for i := 1; i < len(found); i++ {
		if found[i].modTime.After(found[newest].modTime) {
			newest = i
		}
	}
	return &found[newest], nil
}

// Annotated is a renamed snapshot carrying its source world name.
type Annotated struct {
	Path     string
	Sequence int
	World    string
}

// Collect returns the annotated snapshots of a scene in directory
// enumeration order.
func Collect(scene, snapshotDir string) ([]Annotated, error) {
	entries, err := os.ReadDir(snapshotDir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot directory: %w", err)
	}
	annotated := annotatedPattern(scene)

	var out []Annotated
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := annotated.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		sequence, _ := strconv.Atoi(match[1])
		out = append(out, Annotated{
			Path:     filepath.Join(snapshotDir, entry.Name()),
			Sequence: sequence,
			World:    match[2],
		})
	}
	return out, nil
}
