package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connection and session status",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}

	fmt.Printf("Server: %s\n", cfg.ServerURL)
	if !client.IsLoggedIn() {
		fmt.Println("Not logged in")
		return nil
	}

	me, err := client.Me(context.Background())
	if err != nil {
		fmt.Printf("Logged in, but profile fetch failed: %v\n", err)
		return nil
	}

	role := "usuario"
	if me.IsAdmin {
		role = "administrador"
	}
	fmt.Printf("Logged in as %s (%s)\n", me.Username, role)
	return nil
}
