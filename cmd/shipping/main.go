package main

import (
	"log"

	"ecommerce-mesh/config"
	"ecommerce-mesh/internal/shipping"
)

func main() {
	cfg, err := config.NewShipping()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}
	shipping.Run(cfg)
}
