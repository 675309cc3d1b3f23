package main

import (
	"context"

	"github.com/amanihq/amani/core"
	"github.com/amanihq/amani/core/staff"
)

// addStaff updates or creates a staff account.
func (cli *commandLine) addStaff(name, uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	stf, err := cli.staffRepo.GetStaffByUsernameOrEmail(ctx, uname)
	if err != nil {
		if err != staff.ErrNotFound {
			return err
		}
		ns := staff.NewStaff{
			Name:     name,
			Username: uname,
			Email:    email,
			Password: pwd,
			Roles:    staff.CounselorRoles,
		}
		if isAdmin {
			ns.Roles = staff.AllRoles
		}
		_, err = cli.staffSvc.Create(ctx, ns)
		return err
	}

	if isAdmin {
		stf.Roles = staff.AllRoles
	}
	if err := stf.SetPassword(pwd); err != nil {
		return err
	}
	active := true
	_, err = cli.staffRepo.UpdateStaff(ctx, stf, &active)
	return err
}
