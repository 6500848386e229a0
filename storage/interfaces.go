package storage

import "cursor-stats/models"

// ExportWriter is the interface any secondary sink for merged exports must satisfy.
type ExportWriter interface {
	WriteExport(f models.ExportFile) error
	Close() error
}
