package filesystem

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/ports/driving"
	"github.com/custodia-labs/docdash/internal/logger"
)

// Report summarises one IndexPaths run.
type Report struct {
	// Indexed are the entries created, in walk order.
	Indexed []domain.DocumentEntry

	// Failed maps a path to the reason it was not indexed.
	Failed map[string]error
}

// Indexer feeds files into a DocumentService.
type Indexer struct {
	docs driving.DocumentService
}

// NewIndexer creates an indexer that ingests through docs.
func NewIndexer(docs driving.DocumentService) *Indexer {
	return &Indexer{docs: docs}
}

// IndexPaths ingests every indexable file under paths. A path that cannot
// be read fails the run; a single file that cannot be ingested is recorded
// in the report and skipped.
func (ix *Indexer) IndexPaths(ctx context.Context, paths []string) (*Report, error) {
	report := &Report{Failed: make(map[string]error)}

	for _, root := range paths {
		files, errs := New(root).FullSync(ctx)
		for file := range files {
			entry, err := ix.docs.Ingest(ctx, file.Content, file.Kind, file.Path)
			if err != nil {
				report.Failed[file.Path] = err
				continue
			}
			report.Indexed = append(report.Indexed, *entry)
		}
		if err := <-errs; err != nil {
			return report, fmt.Errorf("index %s: %w", root, err)
		}
	}

	logger.Info("Indexed %d files (%d failed)", len(report.Indexed), len(report.Failed))
	return report, nil
}

// Apply brings the index in line with a watched change. Created and updated
// files replace earlier entries from the same path; deleted files drop them.
func (ix *Indexer) Apply(ctx context.Context, change Change) error {
	switch change.Type {
	case ChangeCreated, ChangeUpdated:
		_, err := ix.docs.Replace(ctx, change.File.Content, change.File.Kind, change.File.Path)
		return err
	case ChangeDeleted:
		_, err := ix.docs.Remove(ctx, change.File.Path)
		return err
	default:
		return fmt.Errorf("change %s: %w", change.Type, domain.ErrInvalidInput)
	}
}

// Watch merges the changes of every path into one channel, which is closed
// once ctx is cancelled and every watcher has stopped.
func (ix *Indexer) Watch(ctx context.Context, paths []string) (<-chan Change, error) {
	var (
		connectors []*Connector
		sources    []<-chan Change
	)
	for _, root := range paths {
		c := New(root)
		ch, err := c.Watch(ctx)
		if err != nil {
			for _, started := range connectors {
				_ = started.Close()
			}
			return nil, fmt.Errorf("watch %s: %w", root, err)
		}
		connectors = append(connectors, c)
		sources = append(sources, ch)
	}

	merged := make(chan Change)
	var wg sync.WaitGroup
	for _, ch := range sources {
		wg.Add(1)
		go func(ch <-chan Change) {
			defer wg.Done()
			for change := range ch {
				select {
				case merged <- change:
				case <-ctx.Done():
				}
			}
		}(ch)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()

	return merged, nil
}
