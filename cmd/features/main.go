package main

import (
	"log"

	"ecommerce-mesh/config"
	"ecommerce-mesh/internal/features"
)

func main() {
	cfg, err := config.NewFeatures()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}
	features.Run(cfg)
}
