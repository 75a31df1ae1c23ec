package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	"github.com/Seer7-SWE/PayTM-clone/pkg/auth"
	"github.com/Seer7-SWE/PayTM-clone/pkg/database"
	"github.com/Seer7-SWE/PayTM-clone/pkg/models"
	"github.com/Seer7-SWE/PayTM-clone/pkg/repositories"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/configs"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/internal/services"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// main seeds demo users with funded accounts, then replays random transfers between them
// through the transfer engine so history and recent lists have data.
func main() {
	noOfUsers := flag.Int("noOfUsers", 20, "Number of users to seed")
	noOfTransfers := flag.Int("noOfTransfers", 100, "Number of random transfers between seeded users")
	password := flag.String("password", "password1!", "Password shared by every seeded user")
	prefix := flag.String("prefix", "user_", "Username prefix")

	flag.Parse()

	// Initialize logger
	pkg.InitLogger()
	logger := pkg.Logger
	defer logger.Sync()

	cfg, err := configs.Load(logger)
	if err != nil {
		logger.Fatal("failed_to_load_config", zap.Error(err))
	}

	ctx := context.Background()
	db, closer, err := database.New(ctx, logger, database.Config{
		PrimaryDSN: cfg.PrimaryDbAddr,
		MaxConns:   cfg.MaxDbCons,
		MinConns:   cfg.MinDbCons,
	})
	if err != nil {
		logger.Fatal("failed_to_init_DB", zap.Error(err))
	}
	defer closer()

	if err = database.RunMigrations(logger, cfg.PrimaryDbAddr); err != nil {
		logger.Fatal("failed_to_run_database_migrations", zap.Error(err))
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		logger.Fatal("failed_to_hash_password", zap.Error(err))
	}

	userRepo := repositories.NewUserRepository()
	accountRepo := repositories.NewAccountRepository()
	transferRepo := repositories.NewTransferRepository()

	// Users and accounts go in one transaction; existing usernames are skipped so re-runs are safe.
	var usernames []string
	err = db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for i := 1; i <= *noOfUsers; i++ {
			username := fmt.Sprintf("%s%d", *prefix, i)
			if _, err := userRepo.FindByUsername(ctx, tx, username); err == nil {
				usernames = append(usernames, username)
				continue
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}

			user := models.User{Username: username, PasswordHash: hash}
			if err := userRepo.Create(ctx, tx, &user); err != nil {
				return err
			}
			account := models.Account{UserID: user.ID, Balance: rand.Int63n(cfg.MaxSeedBalance)}
			if err := accountRepo.Create(ctx, tx, &account); err != nil {
				return err
			}
			logger.Info("user_seeded", zap.String(pkg.Username, username), zap.Int64("balance", account.Balance))
			usernames = append(usernames, username)
		}
		return nil
	})
	if err != nil {
		logger.Fatal("failed_to_seed_users", zap.Error(err))
	}

	if len(usernames) < 2 {
		logger.Info("data_seeded_successfully", zap.Int("users", len(usernames)))
		return
	}

	transfers := services.NewTransferService(logger, cfg, db, userRepo, accountRepo, transferRepo, services.NewNoopPublisher(logger))
	completed, rejected := 0, 0
	for i := 0; i < *noOfTransfers; i++ {
		from := usernames[rand.Intn(len(usernames))]
		to := usernames[rand.Intn(len(usernames))]
		sender, err := userRepo.FindByUsername(ctx, db.Primary(), from)
		if err != nil {
			logger.Fatal("failed_to_load_sender", zap.Error(err))
		}
		if _, err = transfers.Transfer(ctx, "seed", sender.ID, to, rand.Int63n(500)+1); err != nil {
			if pkg.IsBusinessError(err) {
				rejected++
				continue
			}
			logger.Fatal("failed_to_seed_transfer", zap.Error(err))
		}
		completed++
	}
	logger.Info("data_seeded_successfully",
		zap.Int("users", len(usernames)),
		zap.Int("transfers", completed),
		zap.Int("rejected", rejected),
	)
}
