package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/dialogmesh/api"
	"github.com/hupe1980/dialogmesh/core"
)

var (
	chatEndpoint string
	chatAge      string
	chatGender   string
	chatSession  string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to a running dialogmesh service from the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client := api.NewClient(chatEndpoint)
		bio := core.Biometry{AgeClass: chatAge, GenderClass: chatGender}
		return chatLoop(cmd, client, bio, chatSession)
	},
}

type turnClient interface {
	Process(ctx context.Context, req core.Request) (core.Response, error)
}

// chatLoop reads one utterance per line and prints the reply. It returns
// when the service stops asking for more input or stdin is exhausted.
func chatLoop(cmd *cobra.Command, client turnClient, bio core.Biometry, sessionID string) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	for {
		fmt.Fprint(out, "Input: ")
		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}
		text := strings.TrimSpace(in.Text())
		if text == "" {
			continue
		}

		resp, err := client.Process(cmd.Context(), core.Request{Text: text, SessionID: sessionID, Biometry: bio})
		if err != nil {
			return err
		}
		sessionID = resp.SessionID

		fmt.Fprintln(out, resp.Text)
		printDirectives(out, resp.Directives)

		if !resp.RequireMoreInput {
			return nil
		}
	}
}

func printDirectives(w io.Writer, directives []core.Directive) {
	for _, d := range directives {
		fmt.Fprintf(w, "  -> %s %v\n", d.Type, d.Fields)
	}
}
