package userdomain

import (
	"fmt"
	"strconv"
	"strings"
)

// GameMode selects which per-user performance points are read.
type GameMode int16

const (
	GameModeStandard          GameMode = 0
	GameModeTaiko             GameMode = 1
	GameModeCatchTheBeat      GameMode = 2
	GameModeMania             GameMode = 3
	GameModeRelaxStandard     GameMode = 4
	GameModeRelaxTaiko        GameMode = 5
	GameModeRelaxCatchTheBeat GameMode = 6
	GameModeAutopilotStandard GameMode = 8
)

var gameModeNames = map[GameMode]string{
	GameModeStandard:          "standard",
	GameModeTaiko:             "taiko",
	GameModeCatchTheBeat:      "catch_the_beat",
	GameModeMania:             "mania",
	GameModeRelaxStandard:     "relax_standard",
	GameModeRelaxTaiko:        "relax_taiko",
	GameModeRelaxCatchTheBeat: "relax_catch_the_beat",
	GameModeAutopilotStandard: "autopilot_standard",
}

func (m GameMode) String() string {
	if name, ok := gameModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("GameMode(%d)", int16(m))
}

// Valid reports whether m is a known mode.
func (m GameMode) Valid() bool {
	_, ok := gameModeNames[m]
	return ok
}

// ParseGameMode accepts a mode name (case-insensitive, "CatchTheBeat" and
// "catch_the_beat" are equivalent) or its numeric value.
func ParseGameMode(s string) (GameMode, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		m := GameMode(n)
		if m.Valid() {
			return m, nil
		}
		return 0, fmt.Errorf("unknown game mode %q", s)
	}

	key := strings.ReplaceAll(strings.ToLower(s), "_", "")
	for mode, name := range gameModeNames {
		if strings.ReplaceAll(name, "_", "") == key {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown game mode %q", s)
}
