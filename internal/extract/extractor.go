package extract

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/rrbanda/dataloader/internal/llm"
	"github.com/rrbanda/dataloader/internal/observability"
	"github.com/rrbanda/dataloader/internal/textproc"
	"github.com/rrbanda/dataloader/internal/types"
)

const systemPrompt = `You are a knowledge graph extraction engine. You read operational
system data and return a single JSON object with this exact shape:

{"nodes": [{"id": "...", "type": "...", "properties": {"key": "value"}}],
 "relationships": [{"source_id": "...", "target_id": "...", "type": "...", "properties": {}}]}

Use only the node and relationship types you are given. Return JSON only,
no commentary.`

// Extractor submits cleaned system text to a completion provider and
// parses the returned graph.
type Extractor struct {
	provider llm.Provider
	logger   *observability.PipelineLogger
}

// NewExtractor creates an Extractor on top of a completion provider.
func NewExtractor(provider llm.Provider, logger *observability.PipelineLogger) *Extractor {
	return &Extractor{provider: provider, logger: logger}
}

// ExtractGraph runs one extraction call for a system and returns the
// parsed, filtered graph document. Nodes or relationships with types
// outside the universal taxonomy are dropped, not errors.
func (e *Extractor) ExtractGraph(ctx context.Context, systemID string, processed map[string]textproc.ProcessedFile) (*GraphDocument, error) {
	if !hasContent(processed) {
		return nil, types.NewError(types.EXTRACT_EMPTY_INPUT,
			"no content available for system "+systemID)
	}
	contextText := BuildAnalysisContext(systemID, processed)

	e.logger.Info(ctx, "extracting knowledge graph",
		"system_id", systemID, "context_chars", len(contextText))

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: contextText},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, types.WrapError(types.EXTRACT_CALL_FAILED,
			"extraction call failed for system "+systemID, err)
	}

	doc, err := llm.ExtractJSONAs[GraphDocument](resp.Content)
	if err != nil {
		return nil, err
	}
	doc.SystemID = systemID
	filterToTaxonomy(&doc)

	if len(doc.Nodes) == 0 {
		return nil, types.NewError(types.EXTRACT_NO_ENTITIES,
			"extraction returned no entities for system "+systemID)
	}

	e.logger.Info(ctx, "extraction complete",
		"system_id", systemID,
		"node_count", len(doc.Nodes),
		"relationship_count", len(doc.Relationships))
	return &doc, nil
}

// hasContent reports whether any processed file carries cleaned text.
func hasContent(processed map[string]textproc.ProcessedFile) bool {
	for _, file := range processed {
		if strings.TrimSpace(file.CleanedContent) != "" {
			return true
		}
	}
	return false
}

// filterToTaxonomy drops nodes and relationships whose types fall outside
// the universal taxonomy, along with edges left dangling by dropped nodes.
func filterToTaxonomy(doc *GraphDocument) {
	kept := make(map[string]bool, len(doc.Nodes))
	nodes := doc.Nodes[:0]
	for _, node := range doc.Nodes {
		if node.ID == "" || !allowedNodeTypes[node.Type] {
			continue
		}
		nodes = append(nodes, node)
		kept[node.ID] = true
	}
	doc.Nodes = nodes

	rels := doc.Relationships[:0]
	for _, rel := range doc.Relationships {
		if !allowedRelationshipTypes[rel.Type] || !kept[rel.SourceID] || !kept[rel.TargetID] {
			continue
		}
		rels = append(rels, rel)
	}
	doc.Relationships = rels
}

// BuildAnalysisContext concatenates every cleaned file with explicit
// markers, then appends the extraction instructions. Files are ordered by
// path so the context is deterministic.
func BuildAnalysisContext(systemID string, processed map[string]textproc.ProcessedFile) string {
	paths := make([]string, 0, len(processed))
	for p := range processed {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	fmt.Fprintf(&b, "SYSTEM ANALYSIS: %s\n", systemID)

	for _, p := range paths {
		file := processed[p]
		if strings.TrimSpace(file.CleanedContent) == "" {
			continue
		}
		fmt.Fprintf(&b, "\n--- FILE: %s ---\n", p)
		b.WriteString(file.CleanedContent)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `
KNOWLEDGE GRAPH INSTRUCTIONS:
Analyze the system data above and create a comprehensive knowledge graph.

Focus on extracting:
1. SYSTEMS: servers, databases, applications with their properties
2. SERVICES: running processes, APIs, daemons with status/ports
3. COMPONENTS: software packages, libraries, modules
4. EVENTS: incidents, changes, deployments, errors
5. CONFIGURATIONS: settings, parameters, environment variables
6. RELATIONSHIPS: how entities connect, depend on, or interact

Allowed node types: %s
Allowed relationship types: %s

System Context: %s
Extract entities that represent real infrastructure, applications, and operational elements.
`, strings.Join(UniversalNodeTypes, ", "), strings.Join(UniversalRelationshipTypes, ", "), systemID)

	return b.String()
}

// DeriveSystemEntity builds the basic system record from processed files
// without consulting the extraction service: release version from the
// redhat-release banner, service names from systemd unit files, package
// count from the package list, environment guessed from the identifier.
func DeriveSystemEntity(systemID string, processed map[string]textproc.ProcessedFile) types.SystemEntity {
	system := types.NewSystemEntity(systemID)
	system.SystemType = "rhel_server"

	for filePath, file := range processed {
		switch file.FileType {
		case textproc.FileTypeReleaseInfo:
			if file.Parsed.Version != "" {
				system.Version = file.Parsed.Version
			}
		case textproc.FileTypePackageList:
			system.PackageCount = len(file.Parsed.Packages)
		case textproc.FileTypeService:
			if strings.Contains(filePath, "systemd/system") {
				name := strings.TrimSuffix(path.Base(filePath), ".service")
				system.Services = append(system.Services, name)
			}
		}
	}
	sort.Strings(system.Services)

	lowerID := strings.ToLower(systemID)
	switch {
	case strings.Contains(lowerID, "prod"):
		system.Environment = "production"
	case strings.Contains(lowerID, "stage") || strings.Contains(lowerID, "staging"):
		system.Environment = "staging"
	case strings.Contains(lowerID, "dev"):
		system.Environment = "development"
	}

	return system
}

// DeriveEventEntities converts Event-type nodes from an extracted graph
// into event records tied to the system.
func DeriveEventEntities(systemID string, doc *GraphDocument) []types.EventEntity {
	if doc == nil {
		return nil
	}

	var events []types.EventEntity
	for _, node := range doc.Nodes {
		switch node.Type {
		case "Event", "Incident", "Alert", "Change", "Deployment", "Update":
		default:
			continue
		}

		event := types.NewEventEntity(systemID, strings.ToLower(node.Type))
		event.Title = node.ID
		if desc, ok := node.Properties["description"]; ok {
			event.Description = desc
		}
		if sev, ok := node.Properties["severity"]; ok {
			event.Severity = sev
		}
		if src, ok := node.Properties["source"]; ok {
			event.Source = src
		}
		if ts, ok := node.Properties["timestamp"]; ok {
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				event.Timestamp = parsed
			}
		}
		events = append(events, event)
	}
	return events
}
