package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/amanihq/amani/core/staff"
)

// adminMiddleware restricts a route to admins. Extra roles widen the check;
// an admin still needs one of them when any are given.
func adminMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin && contextHasAnyRole(ctx, roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// ctxStaffOrAdminMiddleware lets a staff member through to their own detail
// routes and admins through to anyone's. The target account is stashed in
// the context as "object". Everything else 404s so account IDs do not leak.
func ctxStaffOrAdminMiddleware(svc *staff.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxStf, err := getContextStaff(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context staff")
			}

			if ctx.Param("id") == ctxStf.ID || ctxStf.IsAdmin() {
				if stf, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err == nil {
					ctx.Set("object", stf)
					return next(ctx)
				} else if errors.Cause(err) != staff.ErrNotFound {
					return errors.Wrap(err, "finding staff by ID")
				}
			}
			return errHttpNotFound
		}
	}
}
