package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/caspiansol/adspark/internal/middleware"
)

// devtoken mints a signed bearer token for local API testing.
func main() {
	var (
		userFlag string
		ttlFlag  time.Duration
	)

	flag.StringVar(&userFlag, "user", "", "user ID to embed (defaults to a fresh UUID)")
	flag.DurationVar(&ttlFlag, "ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		exitWithError(errors.New("JWT_SECRET is required"))
	}

	userID := strings.TrimSpace(userFlag)
	if userID == "" {
		userID = uuid.NewString()
	}

	token, err := middleware.SignJWT(secret, middleware.TokenClaims{
		Sub:    userID,
		Exp:    time.Now().Add(ttlFlag).Unix(),
		Issuer: "adspark-dev",
	})
	if err != nil {
		exitWithError(fmt.Errorf("sign token: %w", err))
	}

	fmt.Printf("user: %s\ntoken: %s\n", userID, token)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
