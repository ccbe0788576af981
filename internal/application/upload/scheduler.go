// Package upload runs batches of file uploads with bounded concurrency.
package upload

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/ntwoods/dealerdocs/internal/domain/upload"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/goroutine"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

const (
	DefaultConcurrency = 3

	// startedProgress is reported when a file's transfer begins.
	startedProgress = 15
)

// Uploader stores one file and returns its identifier.
type Uploader interface {
	Upload(ctx context.Context, accessToken, folderID string, file domain.FileHandle) (*domain.UploadedFile, error)
}

// ProgressFunc receives updates for the file at index. It may be called
// from several goroutines at once.
type ProgressFunc func(index int, p domain.Progress)

type UploadAllCommand struct {
	Files       []domain.FileHandle
	AccessToken string
	FolderID    string
	// Concurrency caps simultaneous uploads; zero means DefaultConcurrency.
	Concurrency int
	OnProgress  ProgressFunc
}

// Scheduler drives an Uploader over a batch of files.
type Scheduler struct {
	uploader Uploader
	logger   logger.Interface
}

func NewScheduler(uploader Uploader, logger logger.Interface) *Scheduler {
	return &Scheduler{uploader: uploader, logger: logger}
}

// UploadAll uploads every file and returns results aligned with cmd.Files.
//
// min(Concurrency, len(Files)) workers share an atomic cursor; each claims
// the next index, uploads it and reports progress until the cursor runs
// past the end. After the first failure no further index is claimed, uploads
// already in flight run to completion, and UploadAll returns that first
// error with no results.
func (s *Scheduler) UploadAll(ctx context.Context, cmd UploadAllCommand) ([]domain.UploadedFile, error) {
	n := len(cmd.Files)
	if n == 0 {
		return []domain.UploadedFile{}, nil
	}

	concurrency := cmd.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	workers := min(concurrency, n)

	report := cmd.OnProgress
	if report == nil {
		report = func(int, domain.Progress) {}
	}

	var (
		results = make([]domain.UploadedFile, n)
		cursor  atomic.Int64
		failed  atomic.Bool
		g       errgroup.Group
	)

	worker := func() error {
		for !failed.Load() {
			i := int(cursor.Add(1) - 1)
			if i >= n {
				return nil
			}

			file := cmd.Files[i]
			report(i, domain.Progress{Status: domain.StatusUploading, Progress: startedProgress})

			res, err := s.uploader.Upload(ctx, cmd.AccessToken, cmd.FolderID, file)
			if err == nil && res == nil {
				err = errors.NewUploadError("file host returned no result")
			}
			if err != nil {
				failed.Store(true)
				s.logger.Warnw("upload failed", "index", i, "name", file.Name(), "error", err)
				report(i, domain.Progress{Status: domain.StatusError, Progress: 100, Error: errors.Message(err)})
				return err
			}

			results[i] = *res
			report(i, domain.Progress{Status: domain.StatusDone, Progress: 100, Result: res})
		}
		return nil
	}

	start := time.Now()
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			return goroutine.Run(s.logger, "upload-worker", worker)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Infow("batch uploaded", "files", n, "workers", workers, "elapsed", time.Since(start))
	return results, nil
}
