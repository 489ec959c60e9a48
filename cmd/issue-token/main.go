// Command issue-token mints a learner access token.
//
// Usage:
//
//	issue-token [--learner <uuid>]
//
// Without --learner a fresh learner ID is generated, which is how new
// study participants are provisioned. The token and learner ID are
// printed to stdout.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/auth"
	"github.com/lexloop/vocabtutor-backend/internal/config"
)

func main() {
	learnerFlag := flag.String("learner", "", "existing learner UUID (default: generate a new one)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	learnerID := uuid.New()
	if *learnerFlag != "" {
		learnerID, err = uuid.Parse(*learnerFlag)
		if err != nil {
			log.Fatalf("parse learner id: %v", err)
		}
	}

	manager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	token, err := manager.GenerateAccessToken(learnerID)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Printf("learner: %s\n", learnerID)
	fmt.Printf("token:   %s\n", token)
	fmt.Printf("expires: %s\n", cfg.Auth.AccessTokenTTL)
}
