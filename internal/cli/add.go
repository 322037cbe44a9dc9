package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/existflow/tablero/internal/model"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task to a project board.

Examples:
  tablero add "Revisar contrato" -P 3f2a...
  tablero add "Preparar demo" -P 3f2a... -p Alta -d 2025-03-01`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addProject     string
	addPriority    string
	addDue         string
	addDescription string
	addOwner       string
)

func init() {
	addCmd.Flags().StringVarP(&addProject, "project", "P", "", "Project to add the task to")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "Baja", "Priority (Baja, Media, Alta)")
	addCmd.Flags().StringVarP(&addDue, "due", "d", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addDescription, "desc", "", "Description")
	addCmd.Flags().StringVar(&addOwner, "owner", "", "Assignee display name")
	_ = addCmd.MarkFlagRequired("project")
}

func runAdd(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	engine, err := loadEngine(ctx, client, addProject)
	if err != nil {
		return err
	}

	task, err := engine.Create(ctx, model.TaskCreate{
		Title:       strings.Join(args, " "),
		Description: addDescription,
		Priority:    model.Priority(addPriority),
		ProjectID:   addProject,
		OwnerName:   addOwner,
		DueDate:     addDue,
	})
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	fmt.Printf("✓ Added %s: \"%s\" (%s)\n", model.ShortID(task.ID), task.Title, task.Priority)
	return nil
}
