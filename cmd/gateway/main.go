package main

import (
	"log"

	"ecommerce-mesh/config"
	"ecommerce-mesh/internal/gateway"
)

func main() {
	cfg, err := config.NewGateway()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}
	gateway.Run(cfg)
}
