package types

import "time"

// SystemEntity identifies one monitored host or system discovered during
// ingestion. Created once per system directory and never mutated afterward
// within a single run.
type SystemEntity struct {
	SystemID     string         `json:"system_id"`
	Name         string         `json:"name"`
	SystemType   string         `json:"system_type"`
	Version      string         `json:"version"`
	Environment  string         `json:"environment"`
	Services     []string       `json:"services,omitempty"`
	PackageCount int            `json:"package_count"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// NewSystemEntity creates a SystemEntity with the identifier doubling as the
// display name when none is supplied later.
func NewSystemEntity(systemID string) SystemEntity {
	return SystemEntity{
		SystemID:    systemID,
		Name:        systemID,
		SystemType:  "unknown",
		Version:     "unknown",
		Environment: "unknown",
	}
}

// EventEntity represents one extracted occurrence: a log line, a
// configuration change, an installation record. Created by the extraction
// step; collected into result lists and never mutated.
type EventEntity struct {
	EventID     string         `json:"event_id"`
	SystemID    string         `json:"system_id"`
	EventType   string         `json:"event_type"`
	Timestamp   time.Time      `json:"timestamp"`
	Severity    string         `json:"severity"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Source      string         `json:"source,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewEventEntity creates an EventEntity with defaults filled in: a generated
// identifier, the current time, and informational severity.
func NewEventEntity(systemID, eventType string) EventEntity {
	return EventEntity{
		EventID:   NewEventID(systemID),
		SystemID:  systemID,
		EventType: eventType,
		Timestamp: time.Now(),
		Severity:  "info",
	}
}
