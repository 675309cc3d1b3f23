package main

import (
	"context"

	"github.com/amanihq/amani/core"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	stf, err := cli.staffRepo.GetStaffByUsernameOrEmail(ctx, core.CleanString(uname, true /* lower */))
	if err != nil {
		return err
	}
	if err := stf.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.staffRepo.UpdateStaff(ctx, stf, nil); err != nil {
		return err
	}
	return nil
}
