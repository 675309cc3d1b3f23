package staff

import (
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/amanihq/amani/core"
)

var (
	allRolesTag  = "allroles"
	allRolesText = "invalid roles"
)

func init() {
	_ = core.Validate.RegisterValidation(allRolesTag, allRolesValidation)
	core.RegisterCustomTranslation(allRolesTag, allRolesText)
}

// allRolesValidation checks that provided roles are all in AllRoles.
func allRolesValidation(fl validator.FieldLevel) bool {
	roles, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	sorted := append([]string(nil), AllRoles...)
	sort.Strings(sorted)
	for _, role := range roles {
		idx := sort.SearchStrings(sorted, role)
		if idx >= len(sorted) || sorted[idx] != role {
			return false
		}
	}
	return true
}
