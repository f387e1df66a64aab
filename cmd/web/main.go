package main

import (
	"log"
	"net/http"
	"os"

	"github.com/jhenriksen/bracketeer/internal/db"
	"github.com/jhenriksen/bracketeer/internal/service"
	"github.com/jhenriksen/bracketeer/internal/store"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dsn := os.Getenv("BRACKETEER_DB")
	if dsn == "" {
		dsn = "bracketeer.db?_journal_mode=WAL"
	}

	database := db.InitDB(dsn)
	defer database.Close()

	if err := db.RunMigrations(database.DB, "file://migrations"); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	tournaments := service.NewTournamentService(store.NewTournamentStore(database))

	router := newRouter(tournaments)

	addr := os.Getenv("BRACKETEER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	log.Println("Server starting on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal(err)
	}
}
