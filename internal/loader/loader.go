// Package loader orchestrates the ingestion pipeline: enumerate systems,
// read and clean their files, extract a knowledge graph, and persist the
// results.
package loader

import (
	"context"
	"strings"
	"time"

	"github.com/rrbanda/dataloader/internal/config"
	"github.com/rrbanda/dataloader/internal/extract"
	"github.com/rrbanda/dataloader/internal/graph"
	"github.com/rrbanda/dataloader/internal/history"
	"github.com/rrbanda/dataloader/internal/observability"
	"github.com/rrbanda/dataloader/internal/source"
	"github.com/rrbanda/dataloader/internal/textproc"
	"github.com/rrbanda/dataloader/internal/types"
)

// Result aggregates what one run loaded. FailedSystems lists identifiers
// that were skipped after an extraction or persistence failure; their
// entities are absent from Systems and Events.
type Result struct {
	Systems       []types.SystemEntity
	Events        []types.EventEntity
	FailedSystems []string
}

// Loader drives the read -> clean -> extract -> persist pipeline. Systems
// are processed sequentially; one system's failure is logged and skipped,
// never fatal to the run.
type Loader struct {
	cfg       *config.Config
	adapter   source.DataSourceAdapter
	processor *textproc.Processor
	extractor *extract.Extractor
	graph     graph.Client
	history   *history.Store
	logger    *observability.PipelineLogger
}

// New wires a Loader from explicitly constructed components. The graph
// client must not be connected yet; Setup owns connection and schema.
// history may be nil when the run ledger is disabled.
func New(
	cfg *config.Config,
	adapter source.DataSourceAdapter,
	processor *textproc.Processor,
	extractor *extract.Extractor,
	graphClient graph.Client,
	historyStore *history.Store,
	logger *observability.PipelineLogger,
) *Loader {
	return &Loader{
		cfg:       cfg,
		adapter:   adapter,
		processor: processor,
		extractor: extractor,
		graph:     graphClient,
		history:   historyStore,
		logger:    logger,
	}
}

// Setup connects to the graph database, ensures the schema, and clears
// existing data when clear_on_startup is set.
func (l *Loader) Setup(ctx context.Context) error {
	if err := l.graph.Connect(ctx); err != nil {
		return err
	}
	if err := l.graph.EnsureSchema(ctx); err != nil {
		return err
	}

	mgmt := l.cfg.Neo4j.Management
	if mgmt.ClearOnStartup {
		if mgmt.BackupBeforeClear {
			l.logger.Warn(ctx, "backup_before_clear is set; export existing data before this point in production")
		}
		if err := l.graph.Clear(ctx); err != nil {
			return err
		}
	}
	return nil
}

// LoadAllSystems runs the pipeline over every available system and
// returns the aggregate. Failures degrade to skip-and-continue; callers
// inspect FailedSystems to detect a partial result.
func (l *Loader) LoadAllSystems(ctx context.Context) (*Result, error) {
	startedAt := time.Now()

	systemIDs, err := l.adapter.ListAvailableSystems(ctx)
	if err != nil {
		return nil, err
	}
	l.logger.Info(ctx, "starting ingestion run",
		"system_count", len(systemIDs), "source", l.adapter.Name())

	result := &Result{}
	for _, systemID := range systemIDs {
		system, events, err := l.loadOne(ctx, systemID)
		if err != nil {
			l.logger.Error(ctx, "system load failed, skipping",
				"system_id", systemID, "error", err.Error())
			result.FailedSystems = append(result.FailedSystems, systemID)
			continue
		}
		result.Systems = append(result.Systems, system)
		result.Events = append(result.Events, events...)
	}

	l.logger.Info(ctx, "ingestion run complete",
		"loaded", len(result.Systems),
		"events", len(result.Events),
		"failed", len(result.FailedSystems))

	l.recordRun(ctx, startedAt, result)
	return result, nil
}

// LoadSystem runs the pipeline for a single system.
func (l *Loader) LoadSystem(ctx context.Context, systemID string) (*Result, error) {
	system, events, err := l.loadOne(ctx, systemID)
	if err != nil {
		return nil, err
	}
	return &Result{
		Systems: []types.SystemEntity{system},
		Events:  events,
	}, nil
}

// Close releases the graph connection and the history ledger.
func (l *Loader) Close(ctx context.Context) error {
	var firstErr error
	if err := l.graph.Close(ctx); err != nil {
		firstErr = err
	}
	if l.history != nil {
		if err := l.history.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// loadOne processes a single system end to end.
func (l *Loader) loadOne(ctx context.Context, systemID string) (types.SystemEntity, []types.EventEntity, error) {
	rawFiles, err := l.adapter.LoadSystemFiles(ctx, systemID)
	if err != nil {
		return types.SystemEntity{}, nil, err
	}
	l.logger.Debug(ctx, "loaded raw files", "system_id", systemID, "file_count", len(rawFiles))

	processed := l.processor.ProcessFiles(ctx, rawFiles)

	doc, err := l.extractor.ExtractGraph(ctx, systemID, processed)
	if err != nil {
		return types.SystemEntity{}, nil, err
	}

	system := extract.DeriveSystemEntity(systemID, processed)
	events := extract.DeriveEventEntities(systemID, doc)

	if err := l.graph.StoreGraphDocument(ctx, doc); err != nil {
		return types.SystemEntity{}, nil, err
	}
	if err := l.graph.UpsertSystem(ctx, system); err != nil {
		return types.SystemEntity{}, nil, err
	}
	for _, event := range events {
		if err := l.graph.UpsertEvent(ctx, event); err != nil {
			return types.SystemEntity{}, nil, err
		}
	}

	l.logger.Info(ctx, "system loaded",
		"system_id", systemID,
		"node_count", len(doc.Nodes),
		"event_count", len(events))
	return system, events, nil
}

// recordRun appends the run to the history ledger when it is enabled.
// Ledger failures are logged, never fatal.
func (l *Loader) recordRun(ctx context.Context, startedAt time.Time, result *Result) {
	if l.history == nil {
		return
	}

	err := l.history.RecordRun(ctx, history.RunRecord{
		RunID:       types.NewRunID(),
		Environment: l.cfg.Environment,
		StartedAt:   startedAt,
		FinishedAt:  time.Now(),
		SystemCount: len(result.Systems),
		EventCount:  len(result.Events),
		FailedCount: len(result.FailedSystems),
		FailedIDs:   strings.Join(result.FailedSystems, ","),
	})
	if err != nil {
		l.logger.Warn(ctx, "failed to record run in history ledger", "error", err.Error())
	}
}
