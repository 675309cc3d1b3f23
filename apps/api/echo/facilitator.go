package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/amanihq/amani/core/facilitator"
)

type facilitatorApi struct {
	svc *facilitator.Service
}

func registerFacilitatorAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *facilitator.Service) {
	api := facilitatorApi{svc: svc}

	fg := g.Group("/facilitators", jwt)
	fg.GET("", api.query)
	fg.POST("", api.create, adminMiddleware())
	fg.GET("/assignments", api.queryAssignments)
	fg.POST("/assignments", api.assign, adminMiddleware())
	fg.GET("/:id", api.retrieve)
	fg.POST("/:id/deactivate", api.deactivate, adminMiddleware())
	fg.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

func (api *facilitatorApi) create(ctx echo.Context) error {
	var data facilitator.NewFacilitator
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFacilitator")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	fac, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating facilitator")
	}
	return ctx.JSON(http.StatusCreated, fac)
}

func (api *facilitatorApi) query(ctx echo.Context) error {
	all, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying facilitators")
	}
	if all == nil {
		all = []facilitator.Facilitator{}
	}
	return ctx.JSON(http.StatusOK, all)
}

func (api *facilitatorApi) retrieve(ctx echo.Context) error {
	fac, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == facilitator.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding facilitator by ID")
	}
	return ctx.JSON(http.StatusOK, fac)
}

func (api *facilitatorApi) deactivate(ctx echo.Context) error {
	fac, err := api.svc.Deactivate(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == facilitator.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deactivating facilitator")
	}
	return ctx.JSON(http.StatusOK, fac)
}

func (api *facilitatorApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == facilitator.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting facilitator")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *facilitatorApi) assign(ctx echo.Context) error {
	var data facilitator.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	asg, err := api.svc.Assign(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == facilitator.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "assigning facilitator")
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *facilitatorApi) queryAssignments(ctx echo.Context) error {
	assignments, err := api.svc.QueryAssignments(ctx.Request().Context(), ctx.QueryParam("class_id"))
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if assignments == nil {
		assignments = []facilitator.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}
