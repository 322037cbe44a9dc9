package cli

import (
	"context"
	"fmt"

	"github.com/existflow/tablero/internal/board"
	"github.com/existflow/tablero/internal/model"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move [task-id] [column]",
	Short: "Move a task to another column",
	Long: `Move a task to another board column, updating its pipeline status.

Columns: todo, in_progress, in_review, done`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

func runMove(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	target := board.Column(args[1])
	valid := false
	for _, c := range board.Columns {
		if c == target {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown column %q", args[1])
	}

	taskID := model.CanonicalID(args[0])
	status := board.StatusForColumn(target)
	if err := client.ChangeStatus(context.Background(), taskID, status); err != nil {
		return fmt.Errorf("failed to move task: %w", err)
	}

	fmt.Printf("✓ Moved %s to %s\n", model.ShortID(taskID), target.Title())
	return nil
}
