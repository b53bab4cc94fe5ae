package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shravan2453/ProjectForge/internal/chat"
	"github.com/shravan2453/ProjectForge/internal/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Brainstorm project ideas interactively until one is accepted",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	port, err := newPort(ctx)
	if err != nil {
		return err
	}

	session, err := chat.NewSession(port,
		chat.WithLogger(logger),
		chat.WithMaxTurns(cfg.Workflow.MaxTurns))
	if err != nil {
		return err
	}

	st, err := chat.NewState(types.NewID().String())
	if err != nil {
		return err
	}

	store, closeStore, err := newStore()
	if err != nil {
		return err
	}
	defer closeStore()

	fmt.Fprintln(out, "Describe the kind of project you're looking for. Say 'exit' to quit.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		st, err = session.Step(ctx, st, line)
		if err != nil {
			return err
		}

		if snapshot, err := st.Snapshot(); err == nil {
			if err := store.Save(ctx, st.SessionID, snapshot); err != nil {
				logger.Warn("failed to checkpoint conversation", "error", err)
			}
		}

		if st.AcceptedIdea != nil {
			fmt.Fprintln(out, renderIdea(*st.AcceptedIdea))
			return nil
		}
		if st.NeedsHumanReview {
			fmt.Fprintln(out, "We couldn't land on an idea together. Saving the conversation for review.")
			return nil
		}

		fmt.Fprintln(out, st.LastAssistantMessage())
	}

	return scanner.Err()
}
