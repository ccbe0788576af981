package usecases

import (
	"context"

	"github.com/ntwoods/dealerdocs/internal/domain/dealer"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

type ListRecordsQuery struct {
	AccessToken string
	Filter      dealer.ListFilter
}

// ListRecordsResult carries the filtered records plus summary values
// computed over the whole sheet.
type ListRecordsResult struct {
	Records         []*dealer.Record
	Total           int
	TotalDocuments  int
	Stations        []string
	MarketingPeople []string
}

type ListRecordsUseCase struct {
	repo   dealer.Repository
	logger logger.Interface
}

func NewListRecordsUseCase(repo dealer.Repository, logger logger.Interface) *ListRecordsUseCase {
	return &ListRecordsUseCase{repo: repo, logger: logger}
}

func (uc *ListRecordsUseCase) Execute(ctx context.Context, query ListRecordsQuery) (*ListRecordsResult, error) {
	records, err := uc.repo.FetchAll(ctx, query.AccessToken)
	if err != nil {
		uc.logger.Warnw("failed to fetch dealer records", "error", err)
		return nil, err
	}

	return &ListRecordsResult{
		Records:         dealer.Filter(records, query.Filter),
		Total:           len(records),
		TotalDocuments:  dealer.TotalDocuments(records),
		Stations:        dealer.Stations(records),
		MarketingPeople: dealer.MarketingPeople(records),
	}, nil
}
