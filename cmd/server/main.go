package main

import (
	"context"
	"log"
	"os"

	"github.com/inkwell-app/inkwell/internal/server"
	"github.com/inkwell-app/inkwell/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
