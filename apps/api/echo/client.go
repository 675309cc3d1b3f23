package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/amanihq/amani/core/audit"
	"github.com/amanihq/amani/core/client"
	"github.com/amanihq/amani/core/payment"
)

type clientApi struct {
	svc      *client.Service
	payments *payment.Service
	audit    *audit.Service
}

func registerClientAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *client.Service, paymentSvc *payment.Service, auditSvc *audit.Service) {
	api := clientApi{svc: svc, payments: paymentSvc, audit: auditSvc}

	cg := g.Group("/clients", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.GET("/tasks", api.queryTasks)

	dg := cg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/payments", api.queryPayments)

	// task mutations; domain failures come back with HTTP 200 and success=false
	dg.POST("/complete-task", api.completeTask)
	dg.POST("/set-task", api.setTask)
	dg.POST("/confirm-documentation", api.confirmDocumentation)
}

// Handlers

func (api *clientApi) create(ctx echo.Context) error {
	var data client.NewClient
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClient")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cl, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating client")
	}

	api.audit.Record(ctx.Request().Context(), contextActor(ctx), "client", cl.ID, audit.ActionCreate, map[string]interface{}{
		"firstName": cl.FirstName,
		"lastName":  cl.LastName,
	})
	return ctx.JSON(http.StatusCreated, cl)
}

func (api *clientApi) query(ctx echo.Context) error {
	filter := new(client.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []client.Client{})
	}

	clients, err := api.svc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying clients")
	}
	if clients == nil {
		clients = []client.Client{}
	}
	return ctx.JSON(http.StatusOK, clients)
}

func (api *clientApi) retrieve(ctx echo.Context) error {
	cl, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == client.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding client by ID")
	}
	return ctx.JSON(http.StatusOK, cl)
}

func (api *clientApi) update(ctx echo.Context) error {
	var data client.UpdateClient
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClient")
	}

	cl, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == client.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating client")
	}

	api.audit.Record(ctx.Request().Context(), contextActor(ctx), "client", cl.ID, audit.ActionUpdate, nil)
	return ctx.JSON(http.StatusOK, cl)
}

func (api *clientApi) destroy(ctx echo.Context) error {
	res := api.svc.Delete(ctx.Request().Context(), contextActor(ctx), ctx.Param("id"))
	return ctx.JSON(http.StatusOK, res)
}

func (api *clientApi) completeTask(ctx echo.Context) error {
	res := api.svc.CompleteCurrentTask(ctx.Request().Context(), contextActor(ctx), ctx.Param("id"))
	return ctx.JSON(http.StatusOK, res)
}

func (api *clientApi) setTask(ctx echo.Context) error {
	var data SetTaskRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetTaskRequest")
	}

	res := api.svc.SetTask(ctx.Request().Context(), contextActor(ctx), ctx.Param("id"), data.Task)
	return ctx.JSON(http.StatusOK, res)
}

func (api *clientApi) confirmDocumentation(ctx echo.Context) error {
	advanced, err := api.svc.ResolveAutomatic(ctx.Request().Context(), contextActor(ctx), ctx.Param("id"), client.TaskConfirmDocs)
	if err != nil {
		if errors.Cause(err) == client.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "confirming documentation")
	}
	return ctx.JSON(http.StatusOK, ResolveResponse{Success: true, Advanced: advanced})
}

func (api *clientApi) queryPayments(ctx echo.Context) error {
	payments, err := api.payments.QueryByClient(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying client payments")
	}
	if payments == nil {
		payments = []payment.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *clientApi) queryTasks(ctx echo.Context) error {
	// bare strings; Task would marshal the terminal entry as null
	tasks := make([]string, 0, len(client.AllTasks))
	for _, t := range client.AllTasks {
		tasks = append(tasks, string(t))
	}
	return ctx.JSON(http.StatusOK, tasks)
}

type (
	// SetTaskRequest carries the override target; both JSON null and the
	// "None" sentinel clear the pipeline.
	SetTaskRequest struct {
		Task client.Task `json:"task"`
	}

	ResolveResponse struct {
		Success  bool `json:"success"`
		Advanced bool `json:"advanced"`
	}
)
