package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/toko-pricing/internal/catalog"
)

var demoProducts = []catalog.Record{
	{ID: "apple", Name: "Apple", Price: 100, UnitsInBulk: 3, PriceInBulk: 250},
	{ID: "pear", Name: "Pear", Price: 80},
	{ID: "melon", Name: "Melon", Price: 400, UnitsInBulk: 2, PriceInBulk: 600},
	{ID: "banana", Name: "Banana", Price: 35, UnitsInBulk: 6, PriceInBulk: 180},
	{ID: "orange", Name: "Orange", Price: 60},
	{ID: "mango", Name: "Mango", Price: 250, UnitsInBulk: 4, PriceInBulk: 800},
	{ID: "grape", Name: "Grape", Price: 300},
	{ID: "kiwi", Name: "Kiwi", Price: 45, UnitsInBulk: 10, PriceInBulk: 400},
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	out := flag.String("out", os.Getenv("CATALOG_PATH"), "catalog file to write")
	publish := flag.Bool("publish", false, "also publish the catalog snapshot to REDIS_URL")
	key := flag.String("key", valueOr(os.Getenv("CATALOG_SNAPSHOT_KEY"), catalog.DefaultSnapshotKey), "redis snapshot key")
	flag.Parse()

	payload, err := json.Marshal(demoProducts)
	if err != nil {
		log.Fatalf("Failed to encode demo products: %v", err)
	}
	c := catalog.New()
	if err := c.Load(bytes.NewReader(payload)); err != nil {
		log.Fatalf("Invalid demo catalog: %v", err)
	}

	if *out != "" {
		if err := c.SaveFile(*out); err != nil {
			log.Fatalf("Failed to write catalog: %v", err)
		}
		fmt.Printf("Wrote %d products to %s\n", c.Len(), *out)
	}

	if !*publish {
		if *out == "" {
			log.Fatal("Nothing to do: set CATALOG_PATH, -out or -publish")
		}
		return
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Fatal("REDIS_URL is not set")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := catalog.NewStore(client, *key, 0).Publish(ctx, c); err != nil {
		log.Fatalf("Failed to publish catalog: %v", err)
	}
	fmt.Printf("Published %d products to %s\n", c.Len(), *key)
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
