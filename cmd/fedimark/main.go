package main

import (
	"log"

	"github.com/fedimark/fedimark/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ fedimark failed to start: %v", err)
	}
}
