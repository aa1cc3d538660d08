package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LevelConfig is the JSON description of a level: an ASCII layout plus
// the planning rules and optional challenge thresholds.
type LevelConfig struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Layout      []string          `json:"layout"`
	Legend      map[string]string `json:"legend,omitempty"`
	Actions     []string          `json:"actions"`
	ActionLimit int               `json:"action_limit"`

	// Optional scoring thresholds; zero disables a challenge.
	CommandChallenge int `json:"command_challenge,omitempty"`
	StepChallenge    int `json:"step_challenge,omitempty"`
	WasteChallenge   int `json:"waste_challenge,omitempty"`
}

// Layout characters. Row index is Y, column index is X; a space is void.
// Start tiles carry the player's initial facing: E faces +x (the
// direction Forward moves under a zero rotation), and S, W, N follow
// clockwise from there.
var layoutTiles = map[byte]Tile{
	'.': {Kind: TileBasic},
	'#': {Kind: TileWall},
	'I': {Kind: TileIce},
	'R': {Kind: TileRotateCW},
	'L': {Kind: TileRotateCCW},
	'F': {Kind: TileFinish},
	'E': {Kind: TileStart, Facing: Rot0},
	'S': {Kind: TileStart, Facing: Rot90},
	'W': {Kind: TileStart, Facing: Rot180},
	'N': {Kind: TileStart, Facing: Rot270},
}

// requiredLegend documents the layout characters; configs that include a
// legend must describe them accurately.
var requiredLegend = map[string]string{
	".": "basic",
	"#": "wall",
	"I": "ice",
	"R": "rotate_cw",
	"L": "rotate_ccw",
	"F": "finish",
	"E": "start_east",
	"S": "start_south",
	"W": "start_west",
	"N": "start_north",
}

// ValidateLevelConfig validates a level configuration for correctness
// and playability.
func ValidateLevelConfig(config *LevelConfig) error {
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if len(config.Layout) == 0 || len(config.Layout) > MaxLayoutSize {
		return fmt.Errorf("config validation: layout must have between 1 and %d rows, got %d",
			MaxLayoutSize, len(config.Layout))
	}

	startCount := 0
	finishCount := 0
	for i, row := range config.Layout {
		if len(row) > MaxLayoutSize {
			return fmt.Errorf("config validation: row %d exceeds %d characters", i+1, MaxLayoutSize)
		}
		for j := 0; j < len(row); j++ {
			char := row[j]
			if char == ' ' {
				continue
			}
			tile, ok := layoutTiles[char]
			if !ok {
				return fmt.Errorf("config validation: invalid character %q at row %d, col %d", char, i+1, j+1)
			}
			switch tile.Kind {
			case TileStart:
				startCount++
			case TileFinish:
				finishCount++
			}
		}
	}

	if startCount == 0 {
		return fmt.Errorf("config validation: layout must contain at least one start (E/S/W/N) tile")
	}
	if finishCount == 0 {
		return fmt.Errorf("config validation: layout must contain at least one finish (F) tile")
	}

	if len(config.Actions) == 0 {
		return fmt.Errorf("config validation: actions vocabulary is required")
	}
	seen := map[Action]bool{}
	for _, name := range config.Actions {
		action, err := ParseAction(name)
		if err != nil {
			return fmt.Errorf("config validation: %v", err)
		}
		if seen[action] {
			return fmt.Errorf("config validation: duplicate action %q", name)
		}
		seen[action] = true
	}

	if config.ActionLimit < MinActionLimit || config.ActionLimit > MaxActionLimit {
		return fmt.Errorf("config validation: action_limit must be between %d and %d, got %d",
			MinActionLimit, MaxActionLimit, config.ActionLimit)
	}

	if config.CommandChallenge < 0 || config.StepChallenge < 0 || config.WasteChallenge < 0 {
		return fmt.Errorf("config validation: challenge thresholds cannot be negative")
	}
	if config.CommandChallenge > config.ActionLimit {
		return fmt.Errorf("config validation: command_challenge %d exceeds action_limit %d",
			config.CommandChallenge, config.ActionLimit)
	}

	// Validate legend entries when present
	for key, value := range config.Legend {
		expected, ok := requiredLegend[key]
		if !ok {
			return fmt.Errorf("config validation: legend[%q] describes an unknown character", key)
		}
		if value != expected {
			return fmt.Errorf("config validation: legend[%q] must be %q, got %q", key, expected, value)
		}
	}

	return nil
}

// BuildLevel constructs an immutable Level from a validated config
func BuildLevel(config *LevelConfig) (*Level, error) {
	if err := ValidateLevelConfig(config); err != nil {
		return nil, err
	}

	builder := NewBuilder(config.ActionLimit)

	actions := make([]Action, 0, len(config.Actions))
	for _, name := range config.Actions {
		action, _ := ParseAction(name)
		actions = append(actions, action)
	}
	builder.Actions(actions...)
	builder.Challenges(config.CommandChallenge, config.StepChallenge, config.WasteChallenge)

	for y, row := range config.Layout {
		for x := 0; x < len(row); x++ {
			char := row[x]
			if char == ' ' {
				continue
			}
			tile := layoutTiles[char]
			pos := Position{X: x, Y: y}
			if tile.Kind == TileStart {
				builder.SetStart(pos, tile.Facing)
			} else {
				builder.Set(pos, tile.Kind)
			}
		}
	}

	return builder.Build()
}

// LoadLevelConfig loads a level configuration from a JSON file
func LoadLevelConfig(filename string) (*LevelConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config LevelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateLevelConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a level configuration by name from the configs
// directory.
func LoadConfigByName(configName string) (*LevelConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configPath := filepath.Join("configs", configName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %v", configName, err)
	}

	var config LevelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %v", configName, err)
	}

	if err := ValidateLevelConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %v", configName, err)
	}

	return &config, nil
}
