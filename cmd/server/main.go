package main

import (
	"context"
	"log"

	"github.com/teamawesome/wikistore/internal/config"
	"github.com/teamawesome/wikistore/internal/server"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
