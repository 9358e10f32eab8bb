package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var assessCmd = &cobra.Command{
	Use:   "assess [job-description-file]",
	Short: "Assess the candidate against a job description read from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		assess(args)
	},
}

func init() {
	rootCmd.AddCommand(assessCmd)
}

func assess(args []string) {
	ctx := context.Background()

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	jd, err := readJobDescription(args)
	if err != nil {
		logger.Fatal("reading job description", zap.Error(err))
	}

	deps, err := wire(ctx, config, logger)
	if err != nil {
		logger.Fatal("wiring dependencies", zap.Error(err))
	}
	defer deps.Close()

	assessment, err := deps.assistant.Assess(ctx, jd)
	if err != nil {
		logger.Fatal("assessing job description", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(assessment, "", "  ")
	fmt.Println(string(pretty))
}

func readJobDescription(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}
