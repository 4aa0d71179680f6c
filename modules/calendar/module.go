package calendar

import (
	"modutime/core/database"
	"modutime/core/middleware"
	"modutime/modules/calendar/controller"
	"modutime/modules/calendar/router"
	"modutime/modules/calendar/service"
	eventrepo "modutime/modules/event/repository"
	fcrepo "modutime/modules/finalchoice/repository"

	"github.com/labstack/echo/v4"
)

func Init(api *echo.Group, db database.IDatabase, mw *middleware.Middleware, eventRepo eventrepo.EventRepositoryInterface, baseURL string) *service.CalendarService {
	svc := service.NewCalendarService(eventRepo, fcrepo.NewFinalChoiceRepository(db), baseURL)
	ctrl := controller.NewCalendarController(svc)

	router.NewCalendarRouter(ctrl).Register(api, mw)

	return svc
}
