package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/banachtech/optionmc/api"
	"github.com/banachtech/optionmc/config"
	"github.com/banachtech/optionmc/db"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func openStore(ctx context.Context, cfg *config.Config) db.Store {
	store, err := db.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		log.Fatalf("error opening store: %v", err)
	}
	return store
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pricing API over HTTP",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig(cmd)
			if cmd.Flags().Changed("address") {
				cfg.Server.Address, _ = cmd.Flags().GetString("address")
			}

			ctx, cancel := signalContext()
			defer cancel()

			store := openStore(ctx, cfg)
			if cfg.Server.Auth && cfg.Store.Driver == "memory" {
				// an in-memory store starts empty, so hand out one key for this process
				plain, key, err := db.NewAPIKey("bootstrap", cfg.Server.KeyTTL, bcrypt.DefaultCost)
				if err != nil {
					log.Fatalf("error creating api key: %v", err)
				}
				if err := store.CreateKey(ctx, key); err != nil {
					log.Fatalf("error storing api key: %v", err)
				}
				fmt.Printf("api key: %s\n", plain)
			}

			server := api.NewServer(store, cfg)
			srv := &http.Server{Addr: cfg.Server.Address, Handler: server.Handler()}

			go func() {
				<-ctx.Done()
				shutdown, done := context.WithTimeout(context.Background(), 10*time.Second)
				defer done()
				if err := srv.Shutdown(shutdown); err != nil {
					log.Errorf("error shutting down: %v", err)
				}
			}()

			log.WithField("address", cfg.Server.Address).Info("serving")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("error serving: %v", err)
			}
		},
	}
	cmd.Flags().String("address", "", "Listen address, e.g. :8080.")
	return cmd
}

func keysCmd() *cobra.Command {
	keys := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
	}
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a new API key in the configured store",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig(cmd)
			if cfg.Store.Driver == "memory" {
				log.Fatalf("keys created in a memory store are lost on exit, configure a postgres store")
			}
			label, _ := cmd.Flags().GetString("label")

			ctx, cancel := signalContext()
			defer cancel()

			store := openStore(ctx, cfg)
			plain, key, err := db.NewAPIKey(label, cfg.Server.KeyTTL, bcrypt.DefaultCost)
			if err != nil {
				log.Fatalf("error creating api key: %v", err)
			}
			if err := store.CreateKey(ctx, key); err != nil {
				log.Fatalf("error storing api key: %v", err)
			}
			fmt.Printf("api key: %s\nexpires: %s\n", plain, key.ExpiresAt.Format(time.RFC3339))
		},
	}
	create.Flags().String("label", "", "Who or what the key is for.")
	_ = create.MarkFlagRequired("label")
	keys.AddCommand(create)
	return keys
}
