package savedata

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Tnze/go-mc/nbt"
)

// TicksPerDay is the length of one in-game day.
const TicksPerDay = 24000

type levelFile struct {
	Data struct {
		Time    int64 `nbt:"Time"`
		DayTime int64 `nbt:"DayTime"`
	} `nbt:"Data"`
}

// ReadWorldAge returns the world age in ticks from a save directory's
// level.dat.
func ReadWorldAge(worldPath string) (int64, error) {
	path := filepath.Join(worldPath, "level.dat")
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open level.dat: %w", err)
	}
	defer file.Close()

	reader, err := gzip.NewReader(file)
	if err != nil {
		return 0, fmt.Errorf("decompress level.dat: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return 0, fmt.Errorf("read level.dat: %w", err)
	}

	var level levelFile
	if err := nbt.Unmarshal(raw, &level); err != nil {
		return 0, fmt.Errorf("decode level.dat: %w", err)
	}
	return level.Data.Time, nil
}

// GameDay returns the in-game day number for a save directory: world age
// ticks divided by the day length.
func GameDay(worldPath string) (int, error) {
	ticks, err := ReadWorldAge(worldPath)
	if err != nil {
		return 0, err
	}
	return int(ticks / TicksPerDay), nil
}
