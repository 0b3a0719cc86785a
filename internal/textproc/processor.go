package textproc

import (
	"context"

	"github.com/rrbanda/dataloader/internal/config"
	"github.com/rrbanda/dataloader/internal/observability"
)

// ProcessedFile is the cleaned, classified, chunked form of one raw file.
type ProcessedFile struct {
	FileType       FileType
	CleanedContent string
	Parsed         ParsedData
	Chunks         []string
	OriginalSize   int
	CleanedSize    int
}

// Processor applies the configured cleaning and chunking pipeline to the
// raw files of one system.
type Processor struct {
	cfg    config.TextProcessingConfig
	logger *observability.PipelineLogger
}

// NewProcessor creates a Processor from validated configuration.
func NewProcessor(cfg config.TextProcessingConfig, logger *observability.PipelineLogger) *Processor {
	return &Processor{cfg: cfg, logger: logger}
}

// ProcessFiles cleans, classifies, and chunks every raw file. Empty files
// are dropped.
func (p *Processor) ProcessFiles(ctx context.Context, rawFiles map[string]string) map[string]ProcessedFile {
	processed := make(map[string]ProcessedFile, len(rawFiles))

	for path, content := range rawFiles {
		if content == "" {
			continue
		}

		cleaned := Clean(content, p.cfg.Cleaning)
		if cleaned == "" {
			continue
		}

		fileType := DetectFileType(path)
		processed[path] = ProcessedFile{
			FileType:       fileType,
			CleanedContent: cleaned,
			Parsed:         ParseByType(fileType, cleaned),
			Chunks:         ChunkAll(cleaned, p.cfg.Chunking.MaxChunkSize, p.cfg.Chunking.ChunkOverlap),
			OriginalSize:   len(content),
			CleanedSize:    len(cleaned),
		}
	}

	p.logger.Debug(ctx, "processed system files", "file_count", len(processed))
	return processed
}
