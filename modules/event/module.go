package event

import (
	"modutime/core/database"
	"modutime/core/middleware"
	"modutime/modules/event/controller"
	"modutime/modules/event/repository"
	"modutime/modules/event/router"
	"modutime/modules/event/service"
	participantrepo "modutime/modules/participant/repository"

	"github.com/labstack/echo/v4"
)

type Module struct {
	Repo    *repository.EventRepository
	Service *service.EventService
}

func Init(api *echo.Group, db database.IDatabase, mw *middleware.Middleware, frontendURL string) *Module {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, participantrepo.NewParticipantRepository(db), frontendURL)
	ctrl := controller.NewEventController(svc)

	router.NewEventRouter(ctrl).Register(api, mw)

	return &Module{Repo: repo, Service: svc}
}
