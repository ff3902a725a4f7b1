package timelapse

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"chunklapse/internal/savedata"
	"chunklapse/internal/snapshots"
	"chunklapse/internal/worlds"
)

// Frame is one snapshot scheduled into the video, in presentation order.
type Frame struct {
	Path  string
	World string
	Date  time.Time
	Dated bool
}

// Order sorts annotated snapshots chronologically by the date token in
// their world name. Undated snapshots carry the zero time, so they sort
// ahead of every dated one and keep their discovery order among themselves.
func Order(list []snapshots.Annotated) []Frame {
	frames := make([]Frame, len(list))
	for i, snap := range list {
		frames[i] = Frame{Path: snap.Path, World: snap.World}
		if date, ok := worlds.ParseDate(snap.World); ok {
			frames[i].Date = date
			frames[i].Dated = true
		}
	}
	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].Date.Before(frames[j].Date)
	})
	return frames
}

// Label formats the per-frame annotation.
func Label(day int, world string) string {
	return fmt.Sprintf("Day %d (%s)", day, world)
}

// DayResolver memoizes per-world day lookups for one assembly run. The
// cache is never persisted; a new run re-reads every save.
type DayResolver struct {
	worldsDir string
	cache     map[string]int
}

// NewDayResolver resolves in-game days against saves under worldsDir.
func NewDayResolver(worldsDir string) *DayResolver {
	return &DayResolver{worldsDir: worldsDir, cache: make(map[string]int)}
}

// Resolve returns the in-game day for a frame's world. When the save data
// cannot be read, it falls back to the frame's 1-based position in the
// sequence; fallbacks are not cached, so a save that appears mid-run is
// still picked up.
func (r *DayResolver) Resolve(world string, position int) int {
	if day, ok := r.cache[world]; ok {
		return day
	}
	day, err := savedata.GameDay(filepath.Join(r.worldsDir, world))
	if err != nil {
		return position
	}
	r.cache[world] = day
	return day
}
