package finalchoice

import (
	"modutime/core/database"
	"modutime/core/middleware"
	eventrepo "modutime/modules/event/repository"
	"modutime/modules/finalchoice/controller"
	"modutime/modules/finalchoice/repository"
	"modutime/modules/finalchoice/router"
	"modutime/modules/finalchoice/service"

	"github.com/labstack/echo/v4"
)

func Init(api *echo.Group, db database.IDatabase, mw *middleware.Middleware, eventRepo eventrepo.EventRepositoryInterface, notifier service.Notifier) *service.FinalChoiceService {
	repo := repository.NewFinalChoiceRepository(db)
	svc := service.NewFinalChoiceService(repo, eventRepo, notifier)
	ctrl := controller.NewFinalChoiceController(svc)

	router.NewFinalChoiceRouter(ctrl).Register(api, mw)

	return svc
}
