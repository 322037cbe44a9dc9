package cli

import (
	"context"
	"fmt"

	"github.com/existflow/tablero/internal/api"
	"github.com/existflow/tablero/internal/board"
	"github.com/existflow/tablero/internal/model"
	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board [project-id]",
	Short: "Print a project board",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoard,
}

// loadEngine builds a board engine over the API client and loads the
// project's board.
func loadEngine(ctx context.Context, client *api.Client, projectID string) (*board.Engine, error) {
	engine := board.NewEngine(client)
	if err := engine.Load(ctx, projectID); err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	return engine, nil
}

func runBoard(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	engine, err := loadEngine(context.Background(), client, args[0])
	if err != nil {
		return err
	}

	b := engine.Board()
	for _, col := range board.Columns {
		fmt.Printf("── %s (%d)\n", col.Title(), len(b[col]))
		for _, t := range b[col] {
			due := ""
			if t.DueDate != "" {
				due = "  ⏰ " + model.DateOnly(t.DueDate)
			}
			owner := t.OwnerName
			if owner == "" {
				owner = "sin asignar"
			}
			fmt.Printf("   %-12s %-40s [%s] %s%s\n",
				model.ShortID(t.ID), t.Title, t.Priority, owner, due)
		}
	}
	return nil
}
