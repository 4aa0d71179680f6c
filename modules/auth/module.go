package auth

import (
	"modutime/core/cache"
	"modutime/core/database"
	"modutime/core/middleware"
	"modutime/modules/auth/controller"
	"modutime/modules/auth/repository"
	"modutime/modules/auth/router"
	"modutime/modules/auth/service"

	"github.com/labstack/echo/v4"
)

func Init(api *echo.Group, db database.IDatabase, mw *middleware.Middleware, c cache.Cache, linker service.ParticipantLinker) *service.AuthService {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, c, linker)
	ctrl := controller.NewAuthController(svc)

	router.NewAuthRouter(ctrl).Register(api, mw)

	return svc
}
