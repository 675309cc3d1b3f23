package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/amanihq/amani/apps/api/echo"
	"github.com/amanihq/amani/core"
	"github.com/amanihq/amani/core/audit"
	"github.com/amanihq/amani/core/class"
	"github.com/amanihq/amani/core/client"
	"github.com/amanihq/amani/core/facilitator"
	"github.com/amanihq/amani/core/payment"
	"github.com/amanihq/amani/core/staff"
	emailsvc "github.com/amanihq/amani/services/email"
	logsvc "github.com/amanihq/amani/services/logger"
	"github.com/amanihq/amani/storage/database"
	sqlxrepos "github.com/amanihq/amani/storage/database/sqlx"
)

func main() {
	logger := newLogger()
	defer logger.Info("Application stopped")

	db, err := setUpDB()
	if err != nil {
		logger.Fatal("setting up database", err)
	}
	defer db.Close()

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	auditSvc := audit.NewService(sqlxrepos.NewAuditRepository(db), logger)
	clientSvc := client.NewService(sqlxrepos.NewClientRepository(db), auditSvc, logger)

	app := echoapi.NewServer(&echoapi.Options{
		Address:        core.Conf.Server.Addr(),
		Logger:         logger,
		EmailSvc:       mailSvc,
		StaffSvc:       staff.NewService(sqlxrepos.NewStaffRepository(db)),
		ClientSvc:      clientSvc,
		PaymentSvc:     payment.NewService(sqlxrepos.NewPaymentRepository(db), clientSvc, auditSvc, logger),
		ClassSvc:       class.NewService(sqlxrepos.NewClassRepository(db), clientSvc, auditSvc, logger),
		FacilitatorSvc: facilitator.NewService(sqlxrepos.NewFacilitatorRepository(db)),
		AuditSvc:       auditSvc,
	})

	logger.Info("Application starting on " + core.Conf.Server.Addr())
	app.Start()
}

func newLogger() core.Logger {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	if core.Conf.Debug {
		return logsvc.NewStdLogger(std)
	}
	logger := logsvc.NewRollbarLogger(std, core.Conf)
	logger.Enable(true)
	return logger
}

func setUpDB() (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		return nil, err
	}

	db, err := database.Open(core.Conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}
