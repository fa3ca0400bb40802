package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"wisma/infras/otel"
	"wisma/infras/postgres"
	facilityModel "wisma/internal/domains/facility/model"
	"wisma/internal/domains/room/model"
	"wisma/shared/constant"
	gDto "wisma/shared/dto"
	"wisma/shared/logger"
	gRepo "wisma/shared/repository"
)

const (
	linkTableName = "room_facilities"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	ReplaceFacilities(ctx context.Context, roomID string, facilityIDs []string) error
	GetFacilities(ctx context.Context, roomID string) ([]facilityModel.Facility, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ReplaceFacilities rewrites the facility set linked to a room in one transaction.
func (repo *repositoryImpl) ReplaceFacilities(ctx context.Context, roomID string, facilityIDs []string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.ReplaceFacilities")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE room_id = $1", linkTableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, deleteQuery)

	if _, err = tx.ExecContext(ctx, deleteQuery, roomID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to clear room facilities (%s): %w", model.EntityName, err)
	}

	if len(facilityIDs) > 0 {
		values := make([]string, len(facilityIDs))
		args := make([]any, 0, len(facilityIDs)+1)
		args = append(args, roomID)

		for i, facilityID := range facilityIDs {
			values[i] = fmt.Sprintf("($1, $%d)", i+2) //nolint:mnd
			args = append(args, facilityID)
		}

		insertQuery := fmt.Sprintf("INSERT INTO %s (room_id, facility_id) VALUES %s", linkTableName, strings.Join(values, ", "))
		scope.SetAttribute(constant.OtelQueryAttributeKey, insertQuery)

		if _, err = tx.ExecContext(ctx, insertQuery, args...); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to link room facilities (%s): %w", model.EntityName, err)
		}
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return nil
}

// GetFacilities returns the facilities linked to a room.
func (repo *repositoryImpl) GetFacilities(ctx context.Context, roomID string) (facilities []facilityModel.Facility, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetFacilities")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`SELECT f.id, f.name, f.description, f.icon, f.active, f.created_by, f.modified_by
		FROM %s f
		JOIN %s rf ON rf.facility_id = f.id
		WHERE rf.room_id = $1
		ORDER BY f.name ASC`, facilityModel.TableName, linkTableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.SelectContext(ctx, &facilities, query, roomID)
	if err != nil {
		logger.ErrorWithStack(err)

		return facilities, fmt.Errorf("failed to get room facilities (%s): %w", model.EntityName, err)
	}

	return facilities, nil
}
