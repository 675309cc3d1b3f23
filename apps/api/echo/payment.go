package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/amanihq/amani/core/client"
	"github.com/amanihq/amani/core/payment"
)

type paymentApi struct {
	svc *payment.Service
}

func registerPaymentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *payment.Service) {
	api := paymentApi{svc: svc}

	pg := g.Group("/payments", jwt)
	pg.GET("", api.query)
	pg.POST("", api.record)
	pg.GET("/:id", api.retrieve)
	pg.DELETE("/:id", api.void, adminMiddleware())
}

// Handlers

func (api *paymentApi) record(ctx echo.Context) error {
	var data payment.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	pmt, err := api.svc.Record(ctx.Request().Context(), contextActor(ctx), data)
	if err != nil {
		if errors.Cause(err) == client.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "recording payment")
	}
	return ctx.JSON(http.StatusCreated, pmt)
}

func (api *paymentApi) query(ctx echo.Context) error {
	payments, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	if payments == nil {
		payments = []payment.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *paymentApi) retrieve(ctx echo.Context) error {
	pmt, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == payment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding payment by ID")
	}
	return ctx.JSON(http.StatusOK, pmt)
}

func (api *paymentApi) void(ctx echo.Context) error {
	if err := api.svc.Void(ctx.Request().Context(), contextActor(ctx), ctx.Param("id")); err != nil {
		if errors.Cause(err) == payment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "voiding payment")
	}
	return ctx.NoContent(http.StatusNoContent)
}
