package handlers

import (
	"context"

	"github.com/ntwoods/dealerdocs/internal/application/dealer/usecases"
)

type ListRecordsExecutor interface {
	Execute(ctx context.Context, query usecases.ListRecordsQuery) (*usecases.ListRecordsResult, error)
}

type SubmitDocumentsExecutor interface {
	Execute(ctx context.Context, cmd usecases.SubmitDocumentsCommand) (*usecases.SubmitDocumentsResult, error)
}

// SessionErrorHandler turns authorization failures from the Google APIs
// into a forced sign-out.
type SessionErrorHandler interface {
	HandleError(ctx context.Context, scope string, err error) error
}
