package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/campushq/campus/apps/api/echo"
	"github.com/campushq/campus/core"
	"github.com/campushq/campus/core/admission"
	"github.com/campushq/campus/core/catalog"
	"github.com/campushq/campus/core/document"
	"github.com/campushq/campus/core/faculty"
	"github.com/campushq/campus/core/notification"
	"github.com/campushq/campus/core/payment"
	"github.com/campushq/campus/core/result"
	"github.com/campushq/campus/core/student"
	emailsvc "github.com/campushq/campus/services/email"
	filesvc "github.com/campushq/campus/services/filestore"
	logsvc "github.com/campushq/campus/services/logger"
	"github.com/campushq/campus/storage/database"
	sqlxrepos "github.com/campushq/campus/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig(core.Getwd())
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf)
	}

	fileStore, err := filesvc.NewLocalStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up file store: %v", err), err)
	}

	// set up services
	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db))
	facultySvc := faculty.NewService(sqlxrepos.NewFacultyRepository(db), mailSvc, logger)
	notificationSvc, err := notification.NewService(
		sqlxrepos.NewNotificationRepository(db), mailSvc, logger,
		newDirectories(studentSvc, facultySvc),
	)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up notifications: %v", err), err)
	}
	resultSvc := result.NewService(sqlxrepos.NewResultRepository(db), studentSvc, notificationSvc, logger)
	admissionSvc := admission.NewService(sqlxrepos.NewAdmissionRepository(db), mailSvc, notificationSvc, logger)
	catalogSvc := catalog.NewService(sqlxrepos.NewCatalogRepository(db))
	documentSvc := document.NewService(sqlxrepos.NewDocumentRepository(db))
	paymentSvc := payment.NewService(sqlxrepos.NewPaymentRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()
	core.InitValidators(validate, translator)
	student.RegisterValidators(validate)
	faculty.RegisterValidators(validate)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			StudentSvc:      studentSvc,
			FacultySvc:      facultySvc,
			ResultSvc:       resultSvc,
			NotificationSvc: notificationSvc,
			AdmissionSvc:    admissionSvc,
			CatalogSvc:      catalogSvc,
			DocumentSvc:     documentSvc,
			PaymentSvc:      paymentSvc,
			FileStore:       fileStore,
			Validate:        validate,
			Translator:      translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
