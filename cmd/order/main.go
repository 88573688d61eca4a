package main

import (
	"log"

	"ecommerce-mesh/config"
	"ecommerce-mesh/internal/order"
)

func main() {
	cfg, err := config.NewOrder()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}
	order.Run(cfg)
}
