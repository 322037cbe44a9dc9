package cli

import (
	"context"
	"fmt"

	"github.com/existflow/tablero/internal/governance"
	"github.com/existflow/tablero/internal/model"
	"github.com/spf13/cobra"
)

var membersCmd = &cobra.Command{
	Use:   "members [project-id]",
	Short: "List or manage project members",
	Args:  cobra.ExactArgs(1),
	RunE:  runMembers,
}

var (
	memberAdd    string
	memberRemove string
	memberRole   string
	memberTarget string
)

func init() {
	membersCmd.Flags().StringVar(&memberAdd, "add", "", "Add a user (user id)")
	membersCmd.Flags().StringVar(&memberRemove, "remove", "", "Remove a member (user id)")
	membersCmd.Flags().StringVar(&memberRole, "role", "", "New role for --user (gestor, empleado)")
	membersCmd.Flags().StringVar(&memberTarget, "user", "", "Member targeted by --role")
}

func runMembers(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	projectID := args[0]

	if memberAdd != "" {
		if err := client.AddMember(ctx, projectID, memberAdd); err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}
		fmt.Println("✓ Member added")
		return nil
	}

	if memberRemove != "" {
		if err := client.RemoveMember(ctx, projectID, memberRemove); err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		fmt.Println("✓ Member removed")
		return nil
	}

	if memberRole != "" {
		if memberTarget == "" {
			return fmt.Errorf("--role requires --user")
		}
		project, err := client.Project(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}
		members, err := client.Members(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to load members: %w", err)
		}

		// Nominate the fallback manager up front so a manager demotion
		// never goes out without a candidate when one exists.
		change := governance.PlanRoleChange(project, members, memberTarget, model.Role(memberRole))
		if err := client.ChangeMemberRole(ctx, projectID, memberTarget, change.NewRole, change.NewManagerID); err != nil {
			return fmt.Errorf("failed to change role: %w", err)
		}
		if change.NewManagerID != "" {
			fmt.Printf("✓ Role changed, manager reassigned to %s\n", change.NewManagerID)
		} else {
			fmt.Println("✓ Role changed")
		}
		return nil
	}

	members, err := client.Members(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load members: %w", err)
	}
	for _, m := range members {
		marks := ""
		if m.IsCreator {
			marks += " (creador)"
		}
		if m.IsManager {
			marks += " (gestor)"
		}
		fmt.Printf("%-36s %-20s %s%s\n", m.UserID, m.Name, m.Role, marks)
	}
	return nil
}
