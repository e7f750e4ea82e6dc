package main

import (
	"log"
	"os"

	"github.com/zizozako94-cmyk/soqdz/cmd/storefront/app"
	"github.com/zizozako94-cmyk/soqdz/configs"
)

func main() {
	env := os.Getenv("APP_ENV") // dev | staging | prod
	if env == "" {
		env = "dev"
	}

	cfg, err := configs.Load("configs", env)
	if err != nil {
		log.Fatal(err)
	}

	a, cleanup, err := app.InitWithConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	log.Printf("%s (%s) listening on %s", cfg.App.Name, env, cfg.App.HTTPAddr)
	if err := a.Run(cfg); err != nil {
		log.Fatal(err)
	}
}
