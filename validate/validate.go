// Command validate provides a small CLI that validates level configuration
// JSON files in the ../configs directory. It checks:
//   - JSON structure and required fields
//   - Layout consistency and allowed characters (. # I R L F E S W N, space)
//   - Presence of at least one start (E/S/W/N) and one finish (F)
//   - Action vocabulary validity and absence of duplicates
//   - Action limit and challenge threshold constraints
//   - Reachability: at least one finish is adjacent-reachable from a start
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config mirrors the JSON schema for a level configuration.
type Config struct {
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Layout           []string          `json:"layout"`
	Legend           map[string]string `json:"legend"`
	Actions          []string          `json:"actions"`
	ActionLimit      int               `json:"action_limit"`
	CommandChallenge int               `json:"command_challenge"`
	StepChallenge    int               `json:"step_challenge"`
	WasteChallenge   int               `json:"waste_challenge"`
}

const (
	minActionLimit = 1
	maxActionLimit = 12
	maxLayoutSize  = 64
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single level configuration JSON
// file. It performs structural checks, layout/vocabulary validation, and
// reachability analysis for the finish tiles.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if config.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Name is required")
	}
	if config.Description == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Description is required")
	}

	// Validate layout
	if len(config.Layout) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Layout is empty")
	}
	if len(config.Layout) > maxLayoutSize {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Layout has %d rows, maximum is %d", len(config.Layout), maxLayoutSize))
	}

	maxWidth := 0
	startCount := 0
	finishCount := 0
	validChars := map[rune]bool{
		'.': true, // basic
		'#': true, // wall
		'I': true, // ice
		'R': true, // rotate clockwise
		'L': true, // rotate counter-clockwise
		'F': true, // finish
		'E': true, // start facing east
		'S': true, // start facing south
		'W': true, // start facing west
		'N': true, // start facing north
		' ': true, // void
	}

	for i, row := range config.Layout {
		if len(row) > maxWidth {
			maxWidth = len(row)
		}
		if len(row) > maxLayoutSize {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d has %d characters, maximum is %d", i+1, len(row), maxLayoutSize))
		}

		for j, char := range row {
			if !validChars[char] {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Invalid character '%c' at position [%d,%d]", char, i+1, j+1))
			}
			switch char {
			case 'E', 'S', 'W', 'N':
				startCount++
			case 'F':
				finishCount++
			}
		}
	}

	if startCount == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Must have at least 1 start (E/S/W/N) tile")
	}

	if finishCount == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Must have at least 1 finish (F) tile")
	}

	// Validate action vocabulary
	validActions := map[string]bool{
		"forward":  true,
		"right":    true,
		"backward": true,
		"left":     true,
		"nothing":  true,
	}
	if len(config.Actions) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Action vocabulary is empty")
	}
	seen := map[string]bool{}
	for _, name := range config.Actions {
		if !validActions[name] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Unknown action %q in vocabulary", name))
			continue
		}
		if seen[name] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Duplicate action %q in vocabulary", name))
		}
		seen[name] = true
	}

	// Validate action limit
	if config.ActionLimit < minActionLimit || config.ActionLimit > maxActionLimit {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("action_limit must be between %d and %d, got %d", minActionLimit, maxActionLimit, config.ActionLimit))
	}

	// Validate challenge thresholds
	if config.CommandChallenge < 0 || config.StepChallenge < 0 || config.WasteChallenge < 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Challenge thresholds cannot be negative")
	}
	if config.CommandChallenge > config.ActionLimit {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("command_challenge (%d) cannot exceed action_limit (%d)", config.CommandChallenge, config.ActionLimit))
	}

	// Reachability check - a finish must be adjacent-reachable from a start
	if result.Valid {
		reachabilityResult := validateReachability(config.Layout)
		result.Errors = append(result.Errors, reachabilityResult.Errors...)
		if !reachabilityResult.Valid {
			result.Valid = false
		}
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", len(config.Layout), maxWidth))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Starts: %d", startCount))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Finishes: %d", finishCount))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Actions: %s (limit %d)", strings.Join(config.Actions, "/"), config.ActionLimit))
	}

	return result
}

// validateReachability flood-fills from the first start over non-wall
// tiles with 4-directional movement and checks that at least one finish
// is in the reachable set. This ignores facing and rotator semantics, so
// it is a necessary condition for solvability, not a sufficient one; the
// analyze command runs the full solver.
func validateReachability(layout []string) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	if len(layout) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Cannot validate reachability: empty layout")
		return result
	}

	height := len(layout)

	var starts [][]int
	var finishes [][]int

	for y := 0; y < height; y++ {
		for x := 0; x < len(layout[y]); x++ {
			switch layout[y][x] {
			case 'E', 'S', 'W', 'N':
				starts = append(starts, []int{x, y})
			case 'F':
				finishes = append(finishes, []int{x, y})
			}
		}
	}

	if len(starts) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "No start positions found for reachability test")
		return result
	}

	if len(finishes) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "No finishes found for reachability test")
		return result
	}

	// Walls block movement; void cells end the board.
	isPassable := func(x, y int) bool {
		if x < 0 || y < 0 || y >= height || x >= len(layout[y]) {
			return false
		}
		cell := layout[y][x]
		return cell != '#' && cell != ' '
	}

	// Flood fill from the first start
	visited := make(map[string]bool)
	queue := [][]int{starts[0]}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		x, y := current[0], current[1]
		key := fmt.Sprintf("%d,%d", x, y)

		if visited[key] {
			continue
		}
		visited[key] = true

		directions := [][]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
		for _, dir := range directions {
			nx, ny := x+dir[0], y+dir[1]
			nkey := fmt.Sprintf("%d,%d", nx, ny)

			if !visited[nkey] && isPassable(nx, ny) {
				queue = append(queue, []int{nx, ny})
			}
		}
	}

	reachable := 0
	for _, finish := range finishes {
		key := fmt.Sprintf("%d,%d", finish[0], finish[1])
		if visited[key] {
			reachable++
		}
	}

	if reachable == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Reachability failure: none of the %d finishes can be reached from the start", len(finishes)))
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Reachability: %d/%d finishes reachable from the start", reachable, len(finishes)))
	}

	return result
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
