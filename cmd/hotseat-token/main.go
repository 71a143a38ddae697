package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"

	"github.com/justinabrahms/hotseat/internal/auth"
	"github.com/justinabrahms/hotseat/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	newSecret := flag.Bool("new-secret", false, "Print a freshly generated signing secret and exit")
	configPath := flag.String("config", "", "Path to a config file (default: ./config.yaml)")
	subject := flag.String("subject", auth.BoardSubject, "Token subject")
	ttl := flag.Duration("ttl", 0, "Token lifetime (default: auth.token_ttl)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *newSecret {
		printSecret()
		return
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if cfg.Auth.Secret == "" {
		log.Fatal().Msg("auth.secret is not set; generate one with -new-secret")
	}

	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}
	issuer, err := auth.NewIssuer(cfg.Auth.Secret, lifetime)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token issuer")
	}
	token, err := issuer.Issue(*subject)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to issue token")
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "\nOpen http://%s/?token=%s\n", cfg.Server.Addr(), token)
	fmt.Fprintf(os.Stderr, "or send it as \"Authorization: Bearer <token>\". Valid for %s.\n", lifetime)
}

func printSecret() {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal().Err(err).Msg("Failed to generate secret")
	}

	fmt.Println("=== SIGNING SECRET (Keep this secret!) ===")
	fmt.Println("Add to config.yaml or set as HOTSEAT_AUTH_SECRET:")
	fmt.Println()
	fmt.Println("  auth:")
	fmt.Println("    enabled: true")
	fmt.Printf("    secret: %q\n", base64.RawURLEncoding.EncodeToString(b))
	fmt.Println()
	fmt.Println("=== IMPORTANT SECURITY NOTES ===")
	fmt.Println("1. NEVER commit the secret to version control")
	fmt.Println("2. Changing the secret invalidates every issued token")
}
