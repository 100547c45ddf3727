package dnsprovider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"sigs.k8s.io/external-dns/endpoint"
)

// Syncer pushes endpoints to a Provider, updating records that exist and
// creating the rest.
type Syncer struct {
	provider Provider
	logger   *zap.Logger
	workers  int
	dryRun   bool
}

// NewSyncer returns a Syncer. workers below 1 means sequential processing.
func NewSyncer(logger *zap.Logger, provider Provider, workers int, dryRun bool) *Syncer {
	if workers < 1 {
		workers = 1
	}
	return &Syncer{
		provider: provider,
		logger:   logger,
		workers:  workers,
		dryRun:   dryRun,
	}
}

// SyncRecord looks up the record named by ep and updates it when found,
// otherwise creates it. The provider's response is returned unchanged.
func (s *Syncer) SyncRecord(ctx context.Context, ep *endpoint.Endpoint) (Result, error) {
	res := Result{
		Hostname: hostnameOf(ep),
		Name:     ep.DNSName,
		Address:  targetOf(ep),
	}

	existing, err := s.provider.FindRecord(ctx, ep.DNSName, ep.RecordType)
	if err != nil {
		s.logger.Error("Failed to look up existing record",
			zap.String("name", ep.DNSName),
			zap.String("type", ep.RecordType),
			zap.Error(err))
		return res, fmt.Errorf("find %s %s: %w", ep.RecordType, ep.DNSName, err)
	}

	res.Action = CREATE
	if existing != nil {
		res.Action = UPDATE
	}

	if s.dryRun {
		s.logger.Info("Would sync DNS record (dry-run)",
			zap.String("action", res.Action),
			zap.String("name", res.Name),
			zap.String("content", res.Address))
		res.DryRun = true
		return res, nil
	}

	switch res.Action {
	case UPDATE:
		res.Response, err = s.provider.UpdateRecord(ctx, existing, ep)
	default:
		res.Response, err = s.provider.CreateRecord(ctx, ep)
	}
	if err != nil {
		s.logger.Error("Failed to sync DNS record",
			zap.String("action", res.Action),
			zap.String("name", res.Name),
			zap.Error(err))
		return res, fmt.Errorf("%s %s %s: %w", res.Action, ep.RecordType, ep.DNSName, err)
	}

	s.logger.Info("Synced DNS record",
		zap.String("action", res.Action),
		zap.String("name", res.Name),
		zap.String("content", res.Address))
	return res, nil
}

type syncTask struct {
	index int
	ep    *endpoint.Endpoint
}

type syncOutcome struct {
	index  int
	result Result
	err    error
}

// SyncAll runs SyncRecord for every endpoint on the configured number of workers.
// Results are returned in input order. The first error stops the remaining
// work; results completed before it are still returned.
func (s *Syncer) SyncAll(ctx context.Context, eps []*endpoint.Endpoint) ([]Result, error) {
	s.logger.Info("Syncing DNS records",
		zap.Int("records", len(eps)),
		zap.Int("workers", s.workers),
		zap.Bool("dryRun", s.dryRun))

	if len(eps) == 0 {
		return nil, nil
	}

	workerCount := s.workers
	if len(eps) < workerCount {
		workerCount = len(eps)
	}

	taskChan := make(chan syncTask, len(eps))
	resultChan := make(chan syncOutcome, len(eps))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, cancel, workerID, taskChan, resultChan)
		}(i)
	}

	for i, ep := range eps {
		taskChan <- syncTask{index: i, ep: ep}
	}
	close(taskChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]Result, len(eps))
	done := make([]bool, len(eps))
	var firstErr error
	for out := range resultChan {
		if out.err != nil {
			// tasks skipped after a failure report context.Canceled; keep the cause
			if firstErr == nil || (errors.Is(firstErr, context.Canceled) && !errors.Is(out.err, context.Canceled)) {
				firstErr = out.err
			}
			continue
		}
		results[out.index] = out.result
		done[out.index] = true
	}

	completed := make([]Result, 0, len(eps))
	for i, ok := range done {
		if ok {
			completed = append(completed, results[i])
		}
	}
	return completed, firstErr
}

// worker drains taskChan until it is closed. A failed task cancels ctx before
// its outcome is sent; once ctx is cancelled the remaining tasks are reported
// as failed without touching the provider.
func (s *Syncer) worker(ctx context.Context, cancel context.CancelFunc, id int, taskChan <-chan syncTask, resultChan chan<- syncOutcome) {
	for task := range taskChan {
		if err := ctx.Err(); err != nil {
			resultChan <- syncOutcome{index: task.index, err: err}
			continue
		}
		s.logger.Debug("Processing DNS record",
			zap.Int("worker", id),
			zap.String("name", task.ep.DNSName))
		res, err := s.SyncRecord(ctx, task.ep)
		if err != nil {
			cancel()
		}
		resultChan <- syncOutcome{index: task.index, result: res, err: err}
	}
}
