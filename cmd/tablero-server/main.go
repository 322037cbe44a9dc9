package main

import (
	"log"
	"os"

	"github.com/existflow/tablero/server"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	driver := os.Getenv("TABLERO_DB_DRIVER")
	if driver == "" {
		driver = "postgres"
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		switch driver {
		case "sqlite":
			dsn = "tablero.db"
		default:
			dsn = "postgres://localhost:5432/tablero?sslmode=disable"
		}
	}

	srv, err := server.New(driver, dsn)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	log.Printf("Tablero server starting on :%s (%s)", port, driver)
	if err := srv.Start(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
