// Package extract turns cleaned system text into a typed knowledge graph
// by prompting a completion service and parsing its structured response.
package extract

// UniversalNodeTypes is the node taxonomy offered to the extraction
// service. It deliberately spans domains so the same pipeline works for
// infrastructure, business, and security data.
var UniversalNodeTypes = []string{
	// Core infrastructure
	"System", "Server", "Database", "Network", "Device",
	"Service", "Process", "Application", "Component",

	// Events and operations
	"Event", "Incident", "Alert", "Log", "Metric",
	"Change", "Deployment", "Backup", "Update",

	// Configuration and code
	"Configuration", "Setting", "Parameter", "Variable",
	"Code", "Repository", "Package", "Library",

	// Business and organization
	"Organization", "Team", "User", "Role", "Permission",
	"Project", "Environment", "Location", "Vendor",

	// Documents and knowledge
	"Document", "Manual", "Policy", "Procedure", "Guide",
	"Report", "Dashboard", "Chart", "Analysis",

	// Security and compliance
	"Vulnerability", "Threat", "Risk", "Control", "Audit",
	"Certificate", "Credential", "Token", "Key",
}

// UniversalRelationshipTypes is the relationship taxonomy offered to the
// extraction service.
var UniversalRelationshipTypes = []string{
	// Operational
	"RUNS", "EXECUTES", "HOSTS", "CONTAINS", "INCLUDES",
	"DEPENDS_ON", "REQUIRES", "USES", "CONNECTS_TO",

	// Hierarchical
	"PARENT_OF", "CHILD_OF", "BELONGS_TO", "PART_OF",
	"MANAGES", "CONTROLS", "OWNS", "MAINTAINS",

	// Event
	"GENERATES", "TRIGGERS", "CAUSES", "RESOLVES",
	"MONITORS", "ALERTS", "LOGS", "REPORTS",

	// Data
	"READS", "WRITES", "ACCESSES", "STORES",
	"PROCESSES", "TRANSFORMS", "VALIDATES", "ENCRYPTS",

	// Business
	"ASSIGNED_TO", "RESPONSIBLE_FOR", "APPROVES", "REVIEWS",
	"IMPLEMENTS", "DOCUMENTS", "SUPPORTS", "ESCALATES",

	// Security
	"AUTHENTICATES", "AUTHORIZES", "PROTECTS", "THREATENS",
	"MITIGATES", "COMPLIES_WITH", "VIOLATES", "AUDITS",
}

// Node is one typed entity in an extracted graph document.
type Node struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Relationship is one typed, directed edge between two extracted nodes.
type Relationship struct {
	SourceID   string            `json:"source_id"`
	TargetID   string            `json:"target_id"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties,omitempty"`
}

// GraphDocument is the full structured output of one extraction call.
type GraphDocument struct {
	SystemID      string         `json:"system_id"`
	Nodes         []Node         `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
}

// allowedNodeTypes and allowedRelationshipTypes index the taxonomies for
// response filtering.
var (
	allowedNodeTypes         = indexTypes(UniversalNodeTypes)
	allowedRelationshipTypes = indexTypes(UniversalRelationshipTypes)
)

func indexTypes(values []string) map[string]bool {
	index := make(map[string]bool, len(values))
	for _, v := range values {
		index[v] = true
	}
	return index
}
