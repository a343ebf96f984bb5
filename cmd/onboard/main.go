package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/onboard/internal/app"
	"github.com/dmitrijs2005/onboard/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	a, err := app.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	if _, err := a.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
