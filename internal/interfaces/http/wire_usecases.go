package http

import (
	dealerUsecases "github.com/ntwoods/dealerdocs/internal/application/dealer/usecases"
	appsession "github.com/ntwoods/dealerdocs/internal/application/session"
	appupload "github.com/ntwoods/dealerdocs/internal/application/upload"
	"github.com/ntwoods/dealerdocs/internal/domain/session"
)

type useCases struct {
	listRecords     *dealerUsecases.ListRecordsUseCase
	submitDocuments *dealerUsecases.SubmitDocumentsUseCase
}

func (c *Container) initUseCases() {
	c.sessions = appsession.NewManager(
		c.infra.decoder,
		c.infra.verifier,
		c.infra.tokenClient,
		c.infra.sessionStore,
		session.NewAllowlist(c.cfg.Auth.AllowedEmails),
		c.log,
	)

	scheduler := appupload.NewScheduler(c.infra.drive, c.log)
	c.ucs = &useCases{
		listRecords: dealerUsecases.NewListRecordsUseCase(c.infra.records, c.log),
		submitDocuments: dealerUsecases.NewSubmitDocumentsUseCase(
			scheduler,
			c.infra.records,
			c.cfg.Google.FolderID,
			c.cfg.Upload.Concurrency,
			c.log,
		),
	}
}
