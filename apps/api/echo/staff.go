package echoapi

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/amanihq/amani/core"
	"github.com/amanihq/amani/core/staff"
)

var (
	errStfNotFoundInCtx  = errors.New("staff object not found in echo.Context")
	errNoPermsToSetRoles = "not enough rights to set these roles"
)

type staffApi struct {
	svc *staff.Service
}

func registerStaffAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *staff.Service) {
	api := staffApi{svc: svc}

	sg := g.Group("/staff")

	// un-authed endpoints
	sg.POST("/login", api.login)

	// authed endpoints
	ag := sg.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)
	ag.POST("/register", api.create, adminMiddleware())
	ag.GET("", api.query, adminMiddleware())
	ag.DELETE("", api.destroyMultiple, adminMiddleware())
	ag.GET("/roles", api.queryRoles, adminMiddleware())

	// detail endpoints
	dg := ag.Group("/:id", ctxStaffOrAdminMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy, adminMiddleware())
}

// Handlers

func (api *staffApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := authenticate(ctx.Request().Context(), data.Username, data.Password, api.svc)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *staffApi) create(ctx echo.Context) error {
	var data staff.NewStaff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStaff")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	// ctxStaff cannot set a role > their own max role
	ctxStf, err := getContextStaff(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context staff")
	}
	if staff.MaxRolePriority(data.Roles) > staff.MaxRolePriority(ctxStf.Roles) {
		return core.NewValidationError(nil, core.FieldError{Field: "roles", Error: errNoPermsToSetRoles})
	}

	stf, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating staff")
	}

	return ctx.JSON(http.StatusCreated, stf)
}

func (api *staffApi) query(ctx echo.Context) error {
	all, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying staff")
	}
	if all == nil {
		all = []staff.Staff{}
	}
	return ctx.JSON(http.StatusOK, all)
}

func (api *staffApi) retrieve(ctx echo.Context) error {
	stf, ok := ctx.Get("object").(staff.Staff)
	if !ok {
		return errors.Wrap(errStfNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, stf)
}

func (api *staffApi) update(ctx echo.Context) error {
	stf, ok := ctx.Get("object").(staff.Staff)
	if !ok {
		return errors.Wrap(errStfNotFoundInCtx, "retrieving object from context")
	}

	var data staff.UpdateStaff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStaff")
	}

	ctxStf, err := getContextStaff(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context staff")
	}
	if !ctxStf.IsAdmin() {
		// `IsActive` and `Roles` can only be changed by admin
		// `Username` and `Email` can only be changed by admin for now
		if data.IsActive != nil || data.Roles != nil || data.Username != "" || data.Email != "" {
			return errHttpForbidden
		}
	}

	// ctxStaff cannot set a role > their own max role
	if staff.MaxRolePriority(data.Roles) > staff.MaxRolePriority(ctxStf.Roles) {
		return core.NewValidationError(nil, core.FieldError{Field: "roles", Error: errNoPermsToSetRoles})
	}

	stf, err = api.svc.Update(ctx.Request().Context(), stf.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating staff")
	}

	return ctx.JSON(http.StatusOK, stf)
}

func (api *staffApi) destroy(ctx echo.Context) error {
	stf, ok := ctx.Get("object").(staff.Staff)
	if !ok {
		return errors.Wrap(errStfNotFoundInCtx, "retrieving object from context")
	}

	// ctxStaff cannot delete themselves
	ctxStf, err := getContextStaff(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context staff")
	}
	if stf.ID == ctxStf.ID {
		return errHttpForbidden
	}

	if err := api.svc.Delete(ctx.Request().Context(), stf.ID); err != nil {
		return errors.Wrap(err, "deleting staff")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *staffApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	// ctxStaff cannot delete themselves
	ctxStf, err := getContextStaff(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context staff")
	}
	sort.Strings(query.IDs)
	if i := sort.SearchStrings(query.IDs, ctxStf.ID); i < len(query.IDs) {
		if match := query.IDs[i]; ctxStf.ID == match {
			return errHttpForbidden
		}
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting staff")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *staffApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, staff.Roles)
}

func (api *staffApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	DestroyMultipleRequest struct {
		IDs []string `query:"id"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return core.Validate.Struct(lr)
}
