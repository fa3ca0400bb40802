//go:build wireinject
// +build wireinject

package di

import (
	"wisma/config"
	"wisma/infras/jwt"
	"wisma/infras/kafka"
	"wisma/infras/otel"
	"wisma/infras/postgres"
	"wisma/infras/redis"
	"wisma/infras/s3"
	"wisma/permissions"
	"wisma/shared/cache"
	"wisma/transport/http"
	"wisma/transport/http/middleware"
	"wisma/transport/http/router"

	"github.com/google/wire"

	authService "wisma/internal/domains/auth/service"
	bookingEvent "wisma/internal/domains/booking/event"
	bookingRepository "wisma/internal/domains/booking/repository"
	bookingService "wisma/internal/domains/booking/service"
	facilityRepository "wisma/internal/domains/facility/repository"
	facilityService "wisma/internal/domains/facility/service"
	roomRepository "wisma/internal/domains/room/repository"
	roomService "wisma/internal/domains/room/service"
	userRepository "wisma/internal/domains/user/repository"
	userService "wisma/internal/domains/user/service"

	authHandler "wisma/internal/handlers/auth"
	bookingHandler "wisma/internal/handlers/booking"
	facilityHandler "wisma/internal/handlers/facility"
	roomHandler "wisma/internal/handlers/room"
	userHandler "wisma/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	authService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var facilityDomain = wire.NewSet(
	facilityRepository.New,
	facilityService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingEvent.NewPublisher,
	bookingService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	roomDomain,
	facilityDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomHandler.New,
	facilityHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
