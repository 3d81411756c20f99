// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

// Command seed populates a Cardo environment with demo accounts and cards.
//
// It is idempotent: existing records (matched by email or card title) are
// left untouched, so the command can run on every environment refresh.
//
// Production databases are refused unless ALLOW_SEED=true is set explicitly.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getcardo/cardo/internal/core/card"
	"github.com/getcardo/cardo/internal/platform/apperr"
	"github.com/getcardo/cardo/internal/platform/config"
	"github.com/getcardo/cardo/internal/platform/migration"
	pgstore "github.com/getcardo/cardo/internal/platform/postgres"
	"github.com/getcardo/cardo/internal/platform/sec"
	"github.com/getcardo/cardo/internal/users/auth"
	"github.com/getcardo/cardo/pkg/slug"
	"github.com/getcardo/cardo/pkg/uuid"
)

// seedUser describes one demo account.
type seedUser struct {
	Email      string
	Password   string
	Name       auth.Name
	Phone      string
	Address    auth.Address
	IsBusiness bool
	IsAdmin    bool
}

// seedCard describes one demo card, keyed to its owner by email.
type seedCard struct {
	OwnerEmail string
	Input      card.CreateCardInput
}

var demoUsers = []seedUser{
	{
		Email:    "regular@getcardo.app",
		Password: "Cardo123!",
		Name:     auth.Name{First: "Noa", Last: "Regular"},
		Phone:    "050-111-1111",
		Address:  auth.Address{Country: "Israel", City: "Tel Aviv", Street: "Herzl", HouseNumber: 1, Zip: "61000"},
	},
	{
		Email:      "business@getcardo.app",
		Password:   "Cardo123!",
		Name:       auth.Name{First: "Ben", Last: "Business"},
		Phone:      "050-222-2222",
		Address:    auth.Address{Country: "Israel", City: "Haifa", Street: "HaNassi", HouseNumber: 2, Zip: "31000"},
		IsBusiness: true,
	},
	{
		Email:      "admin@getcardo.app",
		Password:   "Cardo123!",
		Name:       auth.Name{First: "Ada", Last: "Admin"},
		Phone:      "050-333-3333",
		Address:    auth.Address{Country: "Israel", City: "Jerusalem", Street: "Jaffa", HouseNumber: 3, Zip: "91000"},
		IsBusiness: true,
		IsAdmin:    true,
	},
}

var demoCards = []seedCard{
	{
		OwnerEmail: "business@getcardo.app",
		Input: card.CreateCardInput{
			Title:       "Coffee Corner",
			Subtitle:    "Espresso and pastries",
			Description: "A cozy neighborhood coffee shop with freshly roasted beans.",
			Phone:       "050-444-4444",
			Email:       "hello@coffeecorner.example.com",
			Web:         "https://coffeecorner.example.com",
			Address:     card.Address{Country: "Israel", City: "Haifa", Street: "HaNassi", HouseNumber: 7, Zip: "31000"},
		},
	},
	{
		OwnerEmail: "business@getcardo.app",
		Input: card.CreateCardInput{
			Title:       "TechFix",
			Subtitle:    "Phone and laptop repair",
			Description: "Same-day screen replacement and board-level repair.",
			Phone:       "050-555-5555",
			Email:       "support@techfix.example.com",
			Web:         "https://techfix.example.com",
			Address:     card.Address{Country: "Israel", City: "Haifa", Street: "Allenby", HouseNumber: 12, Zip: "31001"},
		},
	},
	{
		OwnerEmail: "admin@getcardo.app",
		Input: card.CreateCardInput{
			Title:       "Green Grocer",
			Subtitle:    "Organic produce delivered",
			Description: "Local organic fruit and vegetables, delivered daily.",
			Phone:       "050-666-6666",
			Email:       "orders@greengrocer.example.com",
			Address:     card.Address{Country: "Israel", City: "Jerusalem", Street: "Agrippas", HouseNumber: 88, Zip: "91002"},
		},
	},
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", "cardo-seed"))

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.IsProduction() && os.Getenv("ALLOW_SEED") != "true" {
		log.Error("refusing to seed a production database; set ALLOW_SEED=true to override")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	userRepository := auth.NewUserRepository(pool)
	cardRepository := card.NewRepository(pool)
	cardService := card.NewService(cardRepository, noopCache{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Accounts first so cards can resolve their owners.
	ownerIDs := map[string]string{}
	for _, demo := range demoUsers {
		existing, err := userRepository.FindByEmail(ctx, demo.Email)
		if err == nil {
			ownerIDs[demo.Email] = existing.ID
			log.Info("seed_user_exists", slog.String("email", demo.Email))
			continue
		}
		if !isNotFound(err) {
			must(log, err, "look up "+demo.Email)
		}

		hash, err := sec.HashPassword(demo.Password)
		must(log, err, "hash password for "+demo.Email)

		user := &auth.User{
			ID:           uuid.New(),
			Email:        demo.Email,
			PasswordHash: hash,
			Name:         demo.Name,
			Phone:        demo.Phone,
			Address:      demo.Address,
			IsBusiness:   demo.IsBusiness,
			IsAdmin:      demo.IsAdmin,
		}
		must(log, userRepository.Create(ctx, user), "create "+demo.Email)
		ownerIDs[demo.Email] = user.ID
		log.Info("seed_user_created", slog.String("email", demo.Email), slog.Bool("admin", demo.IsAdmin))
	}

	for _, demo := range demoCards {
		slugged := slug.From(demo.Input.Title)
		if _, err := cardRepository.FindBySlug(ctx, slugged); err == nil {
			log.Info("seed_card_exists", slog.String("title", demo.Input.Title))
			continue
		}

		created, err := cardService.CreateCard(ctx, ownerIDs[demo.OwnerEmail], demo.Input)
		must(log, err, "create card "+demo.Input.Title)
		log.Info("seed_card_created",
			slog.String("title", created.Title),
			slog.Int("biz_number", created.BizNumber),
		)
	}

	log.Info("seed_complete")
}

// noopCache satisfies the card cache contract without a Redis connection;
// the seeder writes once and exits.
type noopCache struct{}

func (noopCache) GetByID(context.Context, string) (*card.Card, error)   { return nil, nil }
func (noopCache) GetBySlug(context.Context, string) (*card.Card, error) { return nil, nil }
func (noopCache) Set(context.Context, *card.Card) error                 { return nil }
func (noopCache) Invalidate(context.Context, string, string) error      { return nil }

func isNotFound(err error) bool {
	ae := apperr.As(err)
	return ae != nil && ae.Code == "NOT_FOUND"
}

func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("seed failure", slog.String("context", context), slog.Any("error", err))
		os.Exit(1)
	}
}
