package participant

import (
	"modutime/core/database"
	"modutime/core/middleware"
	"modutime/modules/participant/controller"
	"modutime/modules/participant/repository"
	"modutime/modules/participant/router"
	"modutime/modules/participant/service"

	"github.com/labstack/echo/v4"
)

func Init(api *echo.Group, db database.IDatabase, mw *middleware.Middleware, eventRepo service.EventReader) *service.ParticipantService {
	repo := repository.NewParticipantRepository(db)
	svc := service.NewParticipantService(repo, eventRepo)
	ctrl := controller.NewParticipantController(svc)

	router.NewParticipantRouter(ctrl).Register(api, mw)

	return svc
}
