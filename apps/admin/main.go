package main

import (
	"log"
	"os"

	"github.com/amanihq/amani/core"
	"github.com/amanihq/amani/core/staff"
	"github.com/amanihq/amani/storage/database"
	sqlxrepos "github.com/amanihq/amani/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	if err := database.CreateIfNotExist(core.Conf); err != nil {
		logger.Fatal(err)
	}
	db, err := database.Open(core.Conf)
	if err != nil {
		logger.Fatal(err)
	}
	defer db.Close()

	staffRepo := sqlxrepos.NewStaffRepository(db)
	cli := commandLine{
		db:        db.DB,
		staffRepo: staffRepo,
		staffSvc:  staff.NewService(staffRepo),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
