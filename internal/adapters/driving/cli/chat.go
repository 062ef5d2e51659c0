package cli

import (
	"bufio"
	"context"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Starts a conversational session over the ingested documents.
Follow-up questions are rewritten to standalone ones using the
conversation history, and the history itself is compressed when it grows
past the memory budget.

Session commands: 'clear' resets the conversation, 'stats' shows memory
usage, 'exit' or 'quit' ends the session.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	cmd.Println("LawDecodes chat. Type 'exit' to quit, 'clear' to reset the conversation.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "clear":
			if sess.memory != nil {
				sess.memory.Clear()
			}
			cmd.Println("Conversation cleared.")
			continue
		case "stats":
			printMemoryStats(cmd, sess)
			continue
		}

		answer, err := sess.chat.Ask(ctx, line)
		if err != nil {
			cmd.PrintErrf("Error: %v\n", err)
			continue
		}

		if err := outputAnswer(cmd, answer); err != nil {
			return err
		}
		cmd.Println()
	}

	return scanner.Err()
}

func printMemoryStats(cmd *cobra.Command, sess *session) {
	if sess.memory == nil {
		cmd.Println("No conversation memory in this session.")
		return
	}

	stats := sess.memory.Stats()
	cmd.Printf("Memory: %d turns, %d bytes, ~%d tokens (summary active: %t)\n",
		stats.Turns, stats.Size, stats.TokenEstimate, stats.SummaryActive)
}
