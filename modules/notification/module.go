package notification

import (
	"modutime/core/database"
	"modutime/core/middleware"
	eventrepo "modutime/modules/event/repository"
	fcrepo "modutime/modules/finalchoice/repository"
	"modutime/modules/notification/controller"
	"modutime/modules/notification/repository"
	"modutime/modules/notification/router"
	"modutime/modules/notification/service"
	participantrepo "modutime/modules/participant/repository"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

type Module struct {
	Service  *service.NotificationService
	Enqueuer *service.Enqueuer
	Handler  *service.Handler
}

func Init(api *echo.Group, db database.IDatabase, mw *middleware.Middleware, client *asynq.Client, eventRepo eventrepo.EventRepositoryInterface) *Module {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(api, mw)

	handler := service.NewHandler(
		svc,
		eventRepo,
		participantrepo.NewParticipantRepository(db),
		fcrepo.NewFinalChoiceRepository(db),
		nil, nil,
	)

	return &Module{
		Service:  svc,
		Enqueuer: service.NewEnqueuer(client),
		Handler:  handler,
	}
}
