package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/milk9111/scenesim/input"
)

type scriptedInput struct {
	frame int
	event input.Event
}

// parseInputs reads comma separated frame:key:action entries, action being
// press or release. The result is ordered by frame.
func parseInputs(s string) ([]scriptedInput, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []scriptedInput
	for _, entry := range strings.Split(s, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("input %q: want frame:key:action", entry)
		}
		frame, err := strconv.Atoi(parts[0])
		if err != nil || frame < 0 {
			return nil, fmt.Errorf("input %q: bad frame", entry)
		}
		key, err := input.ParseKey(parts[1])
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", entry, err)
		}
		var evt input.Event
		switch strings.ToLower(parts[2]) {
		case "press", "down":
			evt = input.KeyPressed(key)
		case "release", "up":
			evt = input.KeyReleased(key)
		default:
			return nil, fmt.Errorf("input %q: action must be press or release", entry)
		}
		out = append(out, scriptedInput{frame: frame, event: evt})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].frame < out[j].frame })
	return out, nil
}
