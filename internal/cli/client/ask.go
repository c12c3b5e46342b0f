package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// AskRequest represents the query API request.
type AskRequest struct {
	Query string `json:"query"`
}

// AskResponse represents the query API payload.
type AskResponse struct {
	Response string `json:"response"`
}

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question",
		Long:  "Sends a question to the query endpoint and prints the answer grounded on the ingested documents.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAsk(cmd, args[0], session, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "Conversation ID; reuse it to keep chat history between calls")

	return cmd
}

func runAsk(cmd *cobra.Command, question, session string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}
	if session != "" {
		api.SetSession(session)
	}

	resp, err := api.Post("/api/query", AskRequest{Query: question})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	var askResp AskResponse
	if err := json.Unmarshal(resp.Payload, &askResp); err != nil {
		return fmt.Errorf("failed to parse answer: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(askResp, "", "  ")
		fmt.Println(string(output))
	} else {
		fmt.Println(askResp.Response)
	}

	return nil
}
