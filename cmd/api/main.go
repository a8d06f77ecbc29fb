package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/metinatakli/hall-designer/internal/app"
)

func main() {
	// a missing .env is fine; flags and the environment cover production
	godotenv.Load()

	err := app.Run()
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
