package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"wisma/config"
	otelMocks "wisma/infras/otel/mocks"
	"wisma/internal/domains/facility/mocks"
	"wisma/internal/domains/facility/model"
	"wisma/internal/domains/facility/model/dto"
	"wisma/internal/domains/facility/service"
	"wisma/shared/cache"
	cacheMocks "wisma/shared/cache/mocks"
	gDto "wisma/shared/dto"
	"wisma/shared/failure"
)

type facilityServiceMocks struct {
	repo  *mocks.MockFacility
	cache *cacheMocks.MockRedisCache
}

func newFacilityService(t *testing.T) (service.Facility, facilityServiceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := facilityServiceMocks{
		repo:  mocks.NewMockFacility(ctrl),
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

func TestFacilityService_Create(t *testing.T) {
	req := dto.CreateFacilityRequest{
		Name:        "Air Conditioner",
		Description: "Split unit AC in every room",
		Icon:        "ac",
	}

	tests := []struct {
		name      string
		setupMock func(m facilityServiceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			setupMock: func(m facilityServiceMocks) {
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "duplicate facility name",
			setupMock: func(m facilityServiceMocks) {
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "existence check fails",
			setupMock: func(m facilityServiceMocks) {
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, assert.AnError)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newFacilityService(t)
			tt.setupMock(m)

			err := svc.Create(context.Background(), req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestFacilityService_Get(t *testing.T) {
	id := "b0a9e6a1-6c2f-4e3a-9d6a-1f2e3d4c5b6a"

	t.Run("facility found after cache miss", func(t *testing.T) {
		svc, m := newFacilityService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Facility{ID: id, Name: "Wi-Fi", Active: true}, nil)

		res, err := svc.Get(context.Background(), id)

		assert.NoError(t, err)
		assert.Equal(t, id, res.ID)
		assert.Equal(t, "Wi-Fi", res.Name)
	})

	t.Run("facility not found", func(t *testing.T) {
		svc, m := newFacilityService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Facility{}, nil)

		_, err := svc.Get(context.Background(), id)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestFacilityService_GetAll(t *testing.T) {
	t.Run("lists facilities with pagination", func(t *testing.T) {
		svc, m := newFacilityService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Facility{
				{ID: "fac-1", Name: "Wi-Fi"},
				{ID: "fac-2", Name: "Hot Water"},
			}, nil)

		res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Len(t, res.Facilities, 2)
		assert.Equal(t, 2, res.TotalData)
		assert.Equal(t, 1, res.TotalPage)
	})
}

func TestFacilityService_Update(t *testing.T) {
	id := "b0a9e6a1-6c2f-4e3a-9d6a-1f2e3d4c5b6a"
	req := dto.UpdateFacilityRequest{Name: "High-speed Wi-Fi"}

	tests := []struct {
		name      string
		setupMock func(m facilityServiceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful update",
			setupMock: func(m facilityServiceMocks) {
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "facility not found",
			setupMock: func(m facilityServiceMocks) {
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newFacilityService(t)
			tt.setupMock(m)

			err := svc.Update(context.Background(), req, id)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestFacilityService_Delete(t *testing.T) {
	id := "b0a9e6a1-6c2f-4e3a-9d6a-1f2e3d4c5b6a"

	tests := []struct {
		name      string
		setupMock func(m facilityServiceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful deletion",
			setupMock: func(m facilityServiceMocks) {
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				m.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "facility not found",
			setupMock: func(m facilityServiceMocks) {
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newFacilityService(t)
			tt.setupMock(m)

			err := svc.Delete(context.Background(), id)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
