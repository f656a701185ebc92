package main

import (
	"os"

	"github.com/upgrade-ai/studyplan/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
