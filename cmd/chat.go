package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const quitCommand = "/quit"

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about the candidate from the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("session", "s", "", "session id to continue (default is a new session)")
}

func chat(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	deps, err := wire(ctx, config, logger)
	if err != nil {
		logger.Fatal("wiring dependencies", zap.Error(err))
	}
	defer deps.Close()

	sessionID, _ := cmd.Flags().GetString("session")
	if sessionID = strings.TrimSpace(sessionID); sessionID == "" {
		sessionID = uuid.NewString()
	}
	logger.Info("chat session started", zap.String("session_id", sessionID), zap.String("hint", "type "+quitCommand+" to exit"))

	question := promptui.Prompt{
		Label: "Recruiter",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("question must not be empty")
			}
			return nil
		},
	}

	for {
		input, err := question.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			logger.Fatal("reading question", zap.Error(err))
		}

		if strings.TrimSpace(input) == quitCommand {
			return
		}

		reply, err := deps.assistant.Chat(ctx, sessionID, input)
		if err != nil {
			logger.Error("chat failed", zap.Error(err))
			continue
		}

		fmt.Printf("\n%s\n\n", reply)
	}
}
