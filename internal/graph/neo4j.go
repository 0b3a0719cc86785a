package graph

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/rrbanda/dataloader/internal/extract"
	"github.com/rrbanda/dataloader/internal/observability"
	"github.com/rrbanda/dataloader/internal/types"
)

// Neo4jClient implements Client against a Neo4j database.
type Neo4jClient struct {
	config Config
	driver neo4j.DriverWithContext
	logger *observability.PipelineLogger
}

// NewNeo4jClient creates a client. Connect must be called before use.
func NewNeo4jClient(config Config, logger *observability.PipelineLogger) (*Neo4jClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Neo4jClient{config: config, logger: logger}, nil
}

// Connect establishes the connection with exponential backoff.
func (c *Neo4jClient) Connect(ctx context.Context) error {
	auth := neo4j.BasicAuth(c.config.Username, c.config.Password, "")

	driverConfig := func(config *neo4j.Config) {
		config.MaxConnectionPoolSize = c.config.MaxConnections
		config.ConnectionAcquisitionTimeout = c.config.ConnectionTimeout
	}

	var lastErr error
	maxRetries := 5
	baseDelay := 100 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		driver, err := neo4j.NewDriverWithContext(c.config.URI, auth, driverConfig)
		if err == nil {
			if err = driver.VerifyConnectivity(ctx); err == nil {
				c.driver = driver
				c.logger.Info(ctx, "connected to graph database",
					"uri", c.config.URI, "database", c.config.Database)
				return nil
			}
		}
		lastErr = err

		if ctx.Err() != nil {
			return types.WrapError(ErrConnectionFailed, "connection attempt cancelled", ctx.Err())
		}

		delay := baseDelay * time.Duration(math.Pow(2, float64(attempt)))
		if delay > c.config.ConnectionTimeout {
			delay = c.config.ConnectionTimeout
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return types.WrapError(ErrConnectionFailed, "connection attempt cancelled", ctx.Err())
		}
	}

	return types.WrapError(ErrConnectionFailed,
		fmt.Sprintf("failed to connect after %d attempts", maxRetries), lastErr)
}

// Close releases the driver.
func (c *Neo4jClient) Close(ctx context.Context) error {
	if c.driver == nil {
		return nil
	}
	if err := c.driver.Close(ctx); err != nil {
		return types.WrapError(ErrConnectionClosed, "failed to close driver", err)
	}
	c.driver = nil
	return nil
}

// Health verifies connectivity with a bounded timeout.
func (c *Neo4jClient) Health(ctx context.Context) types.HealthStatus {
	if c.driver == nil {
		return types.Unhealthy("driver not initialized")
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.driver.VerifyConnectivity(healthCtx); err != nil {
		return types.Unhealthy(fmt.Sprintf("connectivity check failed: %v", err))
	}
	return types.Healthy("connected to graph database")
}

// schemaStatements are the constraints and indexes the loader queries
// against. All use IF NOT EXISTS so EnsureSchema is idempotent.
var schemaStatements = []string{
	"CREATE CONSTRAINT system_id_unique IF NOT EXISTS FOR (s:System) REQUIRE s.system_id IS UNIQUE",
	"CREATE INDEX system_hostname_idx IF NOT EXISTS FOR (s:System) ON (s.hostname)",
	"CREATE INDEX system_environment_idx IF NOT EXISTS FOR (s:System) ON (s.environment)",
	"CREATE CONSTRAINT event_id_unique IF NOT EXISTS FOR (e:Event) REQUIRE e.event_id IS UNIQUE",
	"CREATE INDEX event_timestamp_idx IF NOT EXISTS FOR (e:Event) ON (e.timestamp)",
	"CREATE INDEX event_severity_idx IF NOT EXISTS FOR (e:Event) ON (e.severity)",
}

// EnsureSchema creates constraints and indexes.
func (c *Neo4jClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if err := c.write(ctx, stmt, nil); err != nil {
			return types.WrapError(ErrSchemaFailed, "failed to apply schema statement", err)
		}
	}
	c.logger.Debug(ctx, "graph schema ensured", "statement_count", len(schemaStatements))
	return nil
}

// Clear removes every node and relationship from the database.
func (c *Neo4jClient) Clear(ctx context.Context) error {
	c.logger.Warn(ctx, "clearing all graph data", "database", c.config.Database)
	return c.write(ctx, "MATCH (n) DETACH DELETE n", nil)
}

// UpsertSystem merges a system node keyed by system_id.
func (c *Neo4jClient) UpsertSystem(ctx context.Context, system types.SystemEntity) error {
	err := c.write(ctx, `
		MERGE (s:System {system_id: $system_id})
		SET s.hostname = $hostname,
		    s.system_type = $system_type,
		    s.version = $version,
		    s.environment = $environment,
		    s.package_count = $package_count,
		    s.updated_at = datetime()
	`, map[string]any{
		"system_id":     system.SystemID,
		"hostname":      system.Name,
		"system_type":   system.SystemType,
		"version":       system.Version,
		"environment":   system.Environment,
		"package_count": system.PackageCount,
	})
	if err != nil {
		return err
	}

	for _, service := range system.Services {
		err := c.write(ctx, `
			MERGE (s:System {system_id: $system_id})
			MERGE (svc:Service {name: $service_name})
			MERGE (s)-[:RUNS]->(svc)
		`, map[string]any{
			"system_id":    system.SystemID,
			"service_name": service,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// UpsertEvent merges an event node keyed by event_id and links it to its
// system with HAS_EVENT.
func (c *Neo4jClient) UpsertEvent(ctx context.Context, event types.EventEntity) error {
	err := c.write(ctx, `
		MERGE (e:Event {event_id: $event_id})
		SET e.system_id = $system_id,
		    e.event_type = $event_type,
		    e.timestamp = datetime($timestamp),
		    e.severity = $severity,
		    e.title = $title,
		    e.description = $description,
		    e.source = $source,
		    e.updated_at = datetime()
	`, map[string]any{
		"event_id":    event.EventID,
		"system_id":   event.SystemID,
		"event_type":  event.EventType,
		"timestamp":   event.Timestamp.UTC().Format(time.RFC3339),
		"severity":    event.Severity,
		"title":       event.Title,
		"description": event.Description,
		"source":      event.Source,
	})
	if err != nil {
		return err
	}

	return c.write(ctx, `
		MATCH (s:System {system_id: $system_id})
		MATCH (e:Event {event_id: $event_id})
		MERGE (s)-[:HAS_EVENT]->(e)
	`, map[string]any{
		"system_id": event.SystemID,
		"event_id":  event.EventID,
	})
}

// StoreGraphDocument merges every extracted node and relationship. Node
// labels and relationship types come from a fixed taxonomy, so string
// interpolation into Cypher here is bounded.
func (c *Neo4jClient) StoreGraphDocument(ctx context.Context, doc *extract.GraphDocument) error {
	for _, node := range doc.Nodes {
		cypher := fmt.Sprintf(`
			MERGE (n:%s {id: $id})
			SET n += $props, n.system_id = $system_id, n.updated_at = datetime()
		`, node.Type)

		err := c.write(ctx, cypher, map[string]any{
			"id":        node.ID,
			"system_id": doc.SystemID,
			"props":     toPropertyMap(node.Properties),
		})
		if err != nil {
			return err
		}
	}

	for _, rel := range doc.Relationships {
		cypher := fmt.Sprintf(`
			MATCH (a {id: $source_id, system_id: $system_id})
			MATCH (b {id: $target_id, system_id: $system_id})
			MERGE (a)-[r:%s]->(b)
			SET r += $props
		`, rel.Type)

		err := c.write(ctx, cypher, map[string]any{
			"source_id": rel.SourceID,
			"target_id": rel.TargetID,
			"system_id": doc.SystemID,
			"props":     toPropertyMap(rel.Properties),
		})
		if err != nil {
			return err
		}
	}

	c.logger.Debug(ctx, "stored graph document",
		"system_id", doc.SystemID,
		"node_count", len(doc.Nodes),
		"relationship_count", len(doc.Relationships))
	return nil
}

// write runs one Cypher statement in a write transaction.
func (c *Neo4jClient) write(ctx context.Context, cypher string, params map[string]any) error {
	if c.driver == nil {
		return types.NewError(ErrConnectionClosed, "driver not connected")
	}

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.config.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return nil, result.Err()
	})
	if err != nil {
		return types.WrapError(ErrWriteFailed, "write transaction failed", err)
	}
	return nil
}

func toPropertyMap(props map[string]string) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}
