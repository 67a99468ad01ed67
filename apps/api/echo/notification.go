package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/campushq/campus/core/notification"
)

type notificationApi struct {
	svc      *notification.Service
	validate *validator.Validate
}

// BroadcastRequest targets a whole population instead of explicit recipients.
type BroadcastRequest struct {
	Kind         notification.Kind    `json:"kind" validate:"required,oneof=student faculty admin"`
	Message      string               `json:"message" validate:"required"`
	Channel      notification.Channel `json:"channel" validate:"required,oneof=in-app email both"`
	EmailSubject string               `json:"email_subject"`
}

func (req BroadcastRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(req)
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *notification.Service, validate *validator.Validate) {
	api := notificationApi{svc: svc, validate: validate}

	ng := g.Group("/notifications", jwt)
	ng.POST("", api.dispatch, adminMiddleware())
	ng.POST("/broadcast", api.broadcast, adminMiddleware())
	ng.GET("", api.queryOwn)
}

func (api *notificationApi) dispatch(ctx echo.Context) error {
	var data notification.DispatchRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DispatchRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	report, err := api.svc.Dispatch(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *notificationApi) broadcast(ctx echo.Context) error {
	var data BroadcastRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BroadcastRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	report, err := api.svc.Broadcast(ctx.Request().Context(), data.Kind, data.Message, data.Channel, data.EmailSubject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, report)
}

// queryOwn lists the caller's in-app notices, newest first.
func (api *notificationApi) queryOwn(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	notices, err := api.svc.QueryForRecipient(ctx.Request().Context(), claims.Subject, kindForRole(claims.Role))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, notices)
}

func kindForRole(role string) notification.Kind {
	switch role {
	case "admin":
		return notification.KindAdmin
	case "faculty":
		return notification.KindFaculty
	default:
		return notification.KindStudent
	}
}
