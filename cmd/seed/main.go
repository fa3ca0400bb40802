package main

import (
	"context"

	"wisma/config"
	"wisma/infras/otel"
	"wisma/infras/postgres"
	userModel "wisma/internal/domains/user/model"
	userRepository "wisma/internal/domains/user/repository"
	"wisma/shared/constant"
	gDto "wisma/shared/dto"
	"wisma/shared/logger"
	gModel "wisma/shared/model"
	"wisma/shared/password"
	"wisma/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Seeds the initial administrator account from the ADMIN_* environment
// variables. Safe to run repeatedly, an existing account is left alone.
func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.SetLogLevel(cfg)

	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		log.Fatal().Msg("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	ctx := context.Background()
	repo := userRepository.New(postgres.New(cfg), otel.New(cfg))

	emailFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    cfg.Admin.Email,
				Table:    userModel.TableName,
			},
		},
	}

	exists, err := repo.Exist(ctx, emailFilter)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check for existing admin account")
	}

	if exists {
		log.Info().Str("email", cfg.Admin.Email).Msg("Admin account already exists, nothing to do")

		return
	}

	hashed, err := password.Hash(cfg.Admin.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash admin password")
	}

	name := cfg.Admin.Name
	if name == "" {
		name = "Administrator"
	}

	admin := userModel.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    cfg.Admin.Email,
		Password: hashed,
		Role:     constant.RoleAdmin,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "seed",
			ModifiedBy: "seed",
		},
	}

	if err := repo.Insert(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin account")
	}

	log.Info().Str("email", cfg.Admin.Email).Msg("Admin account created")
}
