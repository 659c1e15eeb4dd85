// Package main is the entry point for the scoutmetrics CLI tool, which loads
// StatsBomb event data and computes player scouting metrics.
package main

import "github.com/pable/go-scout-metrics/cmd"

func main() {
	cmd.Execute()
}
