// Команда createsuperuser заводит администратора с флагом суперпользователя.
//
//	CONFIG_PATH=config/local.yaml createsuperuser -username root -email root@example.com
//
// Токен суперпользователь получает обычным путём: /auth/signup и /auth/token.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/magabrotheeeer/yamdb/internal/config"
	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
	"github.com/magabrotheeeer/yamdb/internal/lib/validate"
	"github.com/magabrotheeeer/yamdb/internal/migrations"
	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/storage"
	"github.com/magabrotheeeer/yamdb/internal/storage/repository"
)

type superuser struct {
	Username string `validate:"required,max=150,username,notme"`
	Email    string `validate:"required,max=254,email"`
}

// UserCreator сохраняет пользователя.
type UserCreator interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
}

func createSuperuser(ctx context.Context, users UserCreator, su superuser) (*models.User, error) {
	const op = "createsuperuser"

	if err := validate.New().Struct(su); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := users.CreateUser(ctx, models.User{
		Username:    su.Username,
		Email:       su.Email,
		Role:        models.RoleAdmin,
		IsSuperuser: true,
	})
	switch {
	case errors.Is(err, storage.ErrUserExists):
		return nil, fmt.Errorf("%s: username %q is already taken", op, su.Username)
	case errors.Is(err, storage.ErrEmailExists):
		return nil, fmt.Errorf("%s: email %q is already taken", op, su.Email)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func main() {
	var su superuser
	flag.StringVar(&su.Username, "username", "", "username суперпользователя")
	flag.StringVar(&su.Email, "email", "", "email суперпользователя")
	flag.Parse()

	cfg := config.MustLoad()
	logger := sl.New(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", sl.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		logger.Error("failed to apply migrations", sl.Err(err))
		os.Exit(1)
	}

	user, err := createSuperuser(ctx, db, su)
	if err != nil {
		logger.Error("failed to create superuser", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("superuser created", slog.String("username", user.Username), slog.String("email", user.Email))
}
