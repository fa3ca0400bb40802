package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"wisma/config"
	otelMocks "wisma/infras/otel/mocks"
	"wisma/internal/domains/user/mocks"
	"wisma/internal/domains/user/model"
	"wisma/internal/domains/user/model/dto"
	"wisma/internal/domains/user/service"
	"wisma/shared/cache"
	cacheMocks "wisma/shared/cache/mocks"
	"wisma/shared/constant"
	gDto "wisma/shared/dto"
	"wisma/shared/failure"
)

type userServiceMocks struct {
	repo  *mocks.MockUser
	cache *cacheMocks.MockRedisCache
}

func newUserService(t *testing.T) (service.User, userServiceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := userServiceMocks{
		repo:  mocks.NewMockUser(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	// Cache invalidation and writes run on goroutines the tests do not wait for.
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(m.repo, cfg, m.cache, otelMocks.NewOtel()), m
}

func TestUserService_Get(t *testing.T) {
	id := "7d2f3a4b-5c6d-4e7f-8a9b-0c1d2e3f4a5b"

	t.Run("user found after cache miss", func(t *testing.T) {
		svc, m := newUserService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.User{
				ID:     id,
				Name:   "Budi Santoso",
				Email:  "budi@example.com",
				Role:   constant.RoleUser,
				Active: true,
			}, nil)

		res, err := svc.Get(context.Background(), id)

		assert.NoError(t, err)
		assert.Equal(t, id, res.ID)
		assert.Equal(t, "budi@example.com", res.Email)
	})

	t.Run("user not found", func(t *testing.T) {
		svc, m := newUserService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		_, err := svc.Get(context.Background(), id)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestUserService_GetAll(t *testing.T) {
	t.Run("lists users with pagination", func(t *testing.T) {
		svc, m := newUserService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.User{
				{ID: "user-1", Email: "a@example.com"},
				{ID: "user-2", Email: "b@example.com"},
				{ID: "user-3", Email: "c@example.com"},
			}, nil)

		res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 2}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Len(t, res.Users, 3)
		assert.Equal(t, 3, res.TotalData)
		assert.Equal(t, 2, res.TotalPage)
	})

	t.Run("count failure propagates", func(t *testing.T) {
		svc, m := newUserService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, assert.AnError)

		_, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		assert.Error(t, err)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	id := "7d2f3a4b-5c6d-4e7f-8a9b-0c1d2e3f4a5b"

	tests := []struct {
		name      string
		req       dto.UpdateProfileRequest
		setupMock func(m userServiceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful profile update",
			req:  dto.UpdateProfileRequest{Name: "Budi S."},
			setupMock: func(m userServiceMocks) {
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "Budi S.", fields[model.FieldName])

						return nil
					})
			},
		},
		{
			name: "user not found",
			req:  dto.UpdateProfileRequest{Name: "Budi S."},
			setupMock: func(m userServiceMocks) {
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newUserService(t)
			tt.setupMock(m)

			err := svc.UpdateProfile(context.Background(), tt.req, id)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
