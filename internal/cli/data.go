package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const userDataPath = "/api/game/user-data"

func newDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Player progress commands",
	}

	cmd.AddCommand(newDataGetCmd())
	cmd.AddCommand(newDataSaveCmd())

	return cmd
}

func newDataGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the current player's progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}

			var result UserData
			if err := client.Get(userDataPath, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newDataSaveCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Replace the current player's progress with a JSON document",
		Long: `Replace the current player's progress.

The document has the same shape as "data get" output without userId.
Use --file - to read it from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}

			body, err := readDocument(cmd, file)
			if err != nil {
				return err
			}

			var result SaveResult
			if err := client.Post(userDataPath, body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the JSON document, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func requireToken() error {
	if cfg.Token == "" {
		return fmt.Errorf("not logged in: run 'clickgame login --code <code>' first")
	}
	return nil
}

func readDocument(cmd *cobra.Command, file string) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("document is not valid JSON")
	}
	return json.RawMessage(data), nil
}
