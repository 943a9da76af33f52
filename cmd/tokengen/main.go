// Command tokengen mints a bearer token for local testing of the API.
//
//	JWT_SECRET=dev-secret tokengen -customer 3 -username elif -role EMPLOYEE
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fastprodman/walletsvc/internal/api"
	"github.com/fastprodman/walletsvc/internal/config"
	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/infra/logging"
	"github.com/fastprodman/walletsvc/pkg/envconf"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Error().Err(err).Msg("tokengen failed")
		os.Exit(1)
	}
}

func run(args []string) error {
	logging.Setup(os.Stderr, zerolog.InfoLevel)

	_ = godotenv.Load()

	fs := flag.NewFlagSet("tokengen", flag.ContinueOnError)
	customerID := fs.Int64("customer", 0, "customer id placed in the token subject")
	username := fs.String("username", "", "username claim")
	role := fs.String("role", string(domain.RoleCustomer), "CUSTOMER or EMPLOYEE")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")

	err := fs.Parse(args)
	if err != nil {
		return err
	}

	if *customerID <= 0 {
		return errors.New("-customer is required")
	}

	r, err := domain.ParseRole(*role)
	if err != nil {
		return err
	}

	cfg := new(config.AuthConfig)

	err = envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tok, err := api.IssueToken([]byte(cfg.JWTSecret), domain.Caller{
		CustomerID: *customerID,
		Username:   *username,
		Role:       r,
	}, *ttl, time.Now())
	if err != nil {
		return err
	}

	fmt.Println(tok)

	return nil
}
