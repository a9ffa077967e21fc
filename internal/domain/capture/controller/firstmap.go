package controller

import (
	"strings"

	"github.com/ManuGH/demorec/internal/domain/capture/model"
	"github.com/ManuGH/demorec/internal/domain/capture/ports"
)

// DiscoverFirstMap reads the game's chapter config and returns the map of the
// first "map <name>" line that is not a background map.
func DiscoverFirstMap(fs ports.Filesystem, chapterConfig string) (string, bool) {
	lines, err := fs.ReadLines(chapterConfig)
	if err != nil {
		return "", false
	}
	for _, line := range lines {
		idx := strings.Index(line, "map ")
		if idx < 0 {
			continue
		}
		name := strings.Trim(strings.TrimSpace(line[idx+len("map "):]), `"`)
		if name == "" || model.IsBackgroundMap(name) {
			continue
		}
		return name, true
	}
	return "", false
}
