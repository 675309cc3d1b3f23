package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/amanihq/amani/core/class"
	"github.com/amanihq/amani/core/client"
)

type classApi struct {
	svc *class.Service
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *class.Service) {
	api := classApi{svc: svc}

	cg := g.Group("/classes", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create, adminMiddleware())
	cg.GET("/:id", api.retrieve)
	cg.GET("/:id/enrollments", api.queryEnrollments)

	eg := g.Group("/enrollments", jwt)
	eg.POST("", api.enroll)
	eg.POST("/:id/terminate", api.terminate)
	eg.GET("/:id/attendance", api.queryAttendance)
	eg.POST("/:id/attendance", api.markAttendance)
}

// Handlers

func (api *classApi) create(ctx echo.Context) error {
	var data class.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cls, err := api.svc.CreateClass(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *classApi) query(ctx echo.Context) error {
	classes, err := api.svc.QueryAllClasses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []class.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	cls, err := api.svc.GetClassByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding class by ID")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) queryEnrollments(ctx echo.Context) error {
	enrollments, err := api.svc.QueryEnrollments(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	if enrollments == nil {
		enrollments = []class.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *classApi) enroll(ctx echo.Context) error {
	var data class.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	enr, err := api.svc.Enroll(ctx.Request().Context(), contextActor(ctx), data)
	if err != nil {
		switch errors.Cause(err) {
		case client.ErrNotFound, class.ErrNotFound:
			return errHttpNotFound
		}
		return errors.Wrap(err, "enrolling client")
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *classApi) terminate(ctx echo.Context) error {
	enr, err := api.svc.Terminate(ctx.Request().Context(), contextActor(ctx), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == class.ErrEnrollmentNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "terminating enrollment")
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *classApi) markAttendance(ctx echo.Context) error {
	var data class.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	data.EnrollmentID = ctx.Param("id")
	if err := data.Validate(); err != nil {
		return err
	}

	att, err := api.svc.MarkAttendance(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == class.ErrEnrollmentNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusCreated, att)
}

func (api *classApi) queryAttendance(ctx echo.Context) error {
	marks, err := api.svc.QueryAttendance(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if marks == nil {
		marks = []class.Attendance{}
	}
	return ctx.JSON(http.StatusOK, marks)
}
