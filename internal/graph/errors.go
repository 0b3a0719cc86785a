package graph

import "github.com/rrbanda/dataloader/internal/types"

const (
	ErrConnectionFailed types.ErrorCode = "GRAPH_CONNECTION_FAILED"
	ErrConnectionClosed types.ErrorCode = "GRAPH_CONNECTION_CLOSED"
	ErrQueryFailed      types.ErrorCode = "GRAPH_QUERY_FAILED"
	ErrWriteFailed      types.ErrorCode = "GRAPH_WRITE_FAILED"
	ErrSchemaFailed     types.ErrorCode = "GRAPH_SCHEMA_FAILED"
)
