package main

import (
	"os"

	"github.com/spigell/recruiter-assistant/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
