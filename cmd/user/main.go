package main

import (
	"log"

	"ecommerce-mesh/config"
	"ecommerce-mesh/internal/user"
)

func main() {
	cfg, err := config.NewUser()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}
	user.Run(cfg)
}
