package scenes

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scene identifies a Chunky scene directory containing a same-named
// description file.
type Scene struct {
	Name string
	Dir  string
}

// FilePath returns the path of the scene description file.
func (s Scene) FilePath() string {
	return filepath.Join(s.Dir, s.Name+".json")
}

// SnapshotDir returns the directory Chunky writes render snapshots into.
func (s Scene) SnapshotDir() string {
	return filepath.Join(s.Dir, "snapshots")
}

// Discover lists scene directories under scenesDir: subdirectories that
// contain a <name>.json file. Results are sorted by name.
func Discover(scenesDir string) ([]Scene, error) {
	entries, err := os.ReadDir(scenesDir)
	if err != nil {
		return nil, fmt.Errorf("read scenes directory: %w", err)
	}
	var found []Scene
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(scenesDir, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, entry.Name()+".json")); err != nil {
			continue
		}
		found = append(found, Scene{Name: entry.Name(), Dir: dir})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

// Summary holds the scene fields surfaced to the user.
type Summary struct {
	Name      string
	Width     int
	Height    int
	SPPTarget int
	WorldPath string
	Dimension int
	CameraX   float64
	CameraY   float64
	CameraZ   float64
	HasCamera bool
}

type sceneFile struct {
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	SPPTarget int    `json:"sppTarget"`
	World     struct {
		Path      string `json:"path"`
		Dimension int    `json:"dimension"`
	} `json:"world"`
	Camera struct {
		Position *struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
			Z float64 `json:"z"`
		} `json:"position"`
	} `json:"camera"`
}

// ReadSummary parses the scene file and extracts the display fields.
func ReadSummary(scene Scene) (Summary, error) {
	data, err := os.ReadFile(scene.FilePath())
	if err != nil {
		return Summary{}, fmt.Errorf("read scene file: %w", err)
	}
	var parsed sceneFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Summary{}, fmt.Errorf("parse scene file: %w", err)
	}
	summary := Summary{
		Name:      parsed.Name,
		Width:     parsed.Width,
		Height:    parsed.Height,
		SPPTarget: parsed.SPPTarget,
		WorldPath: parsed.World.Path,
		Dimension: parsed.World.Dimension,
	}
	if pos := parsed.Camera.Position; pos != nil {
		summary.CameraX = pos.X
		summary.CameraY = pos.Y
		summary.CameraZ = pos.Z
		summary.HasCamera = true
	}
	return summary, nil
}

// SetWorldPath rewrites the scene's world.path to worldPath, preserving every
// other field in the file. Path separators are normalized to forward slashes
// so the value stays stable across platforms.
func SetWorldPath(scene Scene, worldPath string) error {
	data, err := os.ReadFile(scene.FilePath())
	if err != nil {
		return fmt.Errorf("read scene file: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse scene file: %w", err)
	}

	world, ok := doc["world"].(map[string]any)
	if !ok {
		world = map[string]any{}
		doc["world"] = world
	}
	world["path"] = NormalizePath(worldPath)

	updated, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scene file: %w", err)
	}
	if err := os.WriteFile(scene.FilePath(), updated, 0o644); err != nil {
		return fmt.Errorf("write scene file: %w", err)
	}
	return nil
}

// NormalizePath converts OS path separators to forward slashes.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// CleanupArtifacts deletes stale octree and dump files from a scene
// directory so a new render cannot resume from previous state. The returned
// paths are the files that were removed; deletion failures are collected
// rather than aborting.
func CleanupArtifacts(scene Scene) (removed []string, errs []error) {
	entries, err := os.ReadDir(scene.Dir)
	if err != nil {
		return nil, []error{fmt.Errorf("read scene directory: %w", err)}
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".octree2") && !strings.HasSuffix(name, ".dump") {
			continue
		}
		path := filepath.Join(scene.Dir, name)
		if err := os.Remove(path); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", name, err))
			continue
		}
		removed = append(removed, path)
	}
	return removed, errs
}
