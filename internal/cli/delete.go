package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/existflow/tablero/internal/model"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}

	taskID := model.CanonicalID(args[0])
	if cfg.ConfirmDelete {
		answer, err := promptLine(fmt.Sprintf("Delete task %s? [y/N] ", model.ShortID(taskID)))
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := client.DeleteTask(context.Background(), taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	fmt.Println("✓ Deleted")
	return nil
}
