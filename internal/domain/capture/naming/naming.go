// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package naming computes collision-free artifact names inside a session directory.
package naming

import (
	"fmt"
	"strconv"

	"github.com/ManuGH/demorec/internal/domain/capture/ports"
)

// CountExisting returns how many entries in directory begin with mapID.
// It is a prefix match: "map1" also counts "map10".
func CountExisting(fsys ports.Filesystem, directory, mapID string) (int, error) {
	n, err := fsys.CountEntriesWithPrefix(directory, mapID)
	if err != nil {
		return 0, fmt.Errorf("count artifacts for %q in %q: %w", mapID, directory, err)
	}
	return n, nil
}

// ArtifactName renders the capture name for a map attempt. Retry 0 is the bare map name.
func ArtifactName(mapID string, retry int) string {
	if retry <= 0 {
		return mapID
	}
	return mapID + "_" + strconv.Itoa(retry)
}
