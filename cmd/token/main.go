package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iamasit07/reversi/backend/internal/config"
	"github.com/iamasit07/reversi/backend/pkg/auth"
)

// token prints a signed access token for an API client, using JWT_SECRET
// from the environment or .env.
func main() {
	clientID := flag.String("client", "", "client id embedded in the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *clientID == "" {
		fmt.Fprintln(os.Stderr, "usage: token -client <id> [-ttl 24h]")
		os.Exit(2)
	}
	if *ttl <= 0 {
		log.Fatal("-ttl must be positive")
	}

	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	token, err := auth.GenerateAccessToken(config.GetEnv("JWT_SECRET", ""), *clientID, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
