// Command analyze runs the exhaustive solver over level configuration
// files and prints a human-readable report: solvability, the total number
// of solving plans, the smallest/fastest/slowest extremes, and whether the
// configured challenge thresholds are attainable at all.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/DylanRJohnston/simon-says/game/engine"
)

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "solve level configurations exhaustively and report the results",
		ArgsUsage: "[config-file ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Aliases: []string{"d"},
				Value:   "configs",
				Usage:   "directory scanned for *.json level configs when no files are given",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Value:   5,
				Usage:   "maximum number of plans to print per extreme group",
			},
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "print the full solution list, not just the extremes",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		var err error
		files, err = filepath.Glob(filepath.Join(cmd.String("config-dir"), "*.json"))
		if err != nil {
			return fmt.Errorf("failed to scan config directory: %w", err)
		}
		if len(files) == 0 {
			return fmt.Errorf("no config files found in %s", cmd.String("config-dir"))
		}
	}

	limit := int(cmd.Int("limit"))
	printAll := cmd.Bool("all")

	failures := 0
	for _, file := range files {
		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), filepath.Base(file))
		if err := analyzeConfig(file, limit, printAll); err != nil {
			fmt.Printf("❌ %v\n", err)
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d config(s) could not be analyzed", failures)
	}
	return nil
}

// analyzeConfig loads one level config, solves it, and prints the report.
func analyzeConfig(path string, limit int, printAll bool) error {
	config, err := engine.LoadLevelConfig(path)
	if err != nil {
		return err
	}

	level, err := engine.BuildLevel(config)
	if err != nil {
		return err
	}

	fmt.Printf("Name: %s\n", config.Name)
	fmt.Printf("Tiles: %d | Starts: %d | Action limit: %d | Vocabulary: %s\n",
		level.Size(), len(level.Starts()), level.ActionLimit(), formatActions(level.Actions()))
	for _, row := range level.Render() {
		fmt.Println("  " + row)
	}

	solutions := level.Solve()
	if len(solutions) == 0 {
		fmt.Println("❌ UNSOLVABLE within the action limit")
		return nil
	}

	fmt.Printf("✅ Solvable: %d plan(s)\n", len(solutions))

	if printAll {
		fmt.Println("\nAll solutions:")
		for _, s := range solutions {
			fmt.Printf("  %s (size %d, %d steps)\n", formatPlan(s.Plan), s.Size, s.Steps)
		}
	}

	printGroup("Smallest", engine.Smallest(solutions), limit)
	printGroup("Fastest", engine.Fastest(solutions), limit)
	printGroup("Slowest", engine.Slowest(solutions), limit)

	printChallenges(level, solutions)
	return nil
}

func printGroup(label string, solutions []engine.Solution, limit int) {
	if len(solutions) == 0 {
		return
	}
	fmt.Printf("\n%s (%d):\n", label, len(solutions))
	for i, s := range solutions {
		if i >= limit {
			fmt.Printf("  ... and %d more\n", len(solutions)-limit)
			break
		}
		fmt.Printf("  %s (size %d, %d steps)\n", formatPlan(s.Plan), s.Size, s.Steps)
	}
}

// printChallenges reports whether each configured threshold is attainable
// by at least one solving plan.
func printChallenges(level *engine.Level, solutions []engine.Solution) {
	type check struct {
		name      string
		threshold int
		ok        func(engine.Solution) bool
	}

	checks := []check{}
	if level.CommandChallenge > 0 {
		t := level.CommandChallenge
		checks = append(checks, check{"commands", t, func(s engine.Solution) bool { return s.Size <= t }})
	}
	if level.StepChallenge > 0 {
		t := level.StepChallenge
		checks = append(checks, check{"steps", t, func(s engine.Solution) bool { return s.Steps <= t }})
	}
	if level.WasteChallenge > 0 {
		t := level.WasteChallenge
		checks = append(checks, check{"waste", t, func(s engine.Solution) bool { return s.Steps >= t }})
	}

	if len(checks) == 0 {
		return
	}

	fmt.Println("\nChallenges:")
	for _, c := range checks {
		attainable := false
		for _, s := range solutions {
			if c.ok(s) {
				attainable = true
				break
			}
		}
		status := "❌ unattainable"
		if attainable {
			status = "✅ attainable"
		}
		fmt.Printf("  %s (threshold %d): %s\n", c.name, c.threshold, status)
	}
}

func formatPlan(plan engine.Plan) string {
	names := make([]string, len(plan))
	for i, a := range plan {
		names[i] = a.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func formatActions(actions []engine.Action) string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}
	return strings.Join(names, "/")
}
