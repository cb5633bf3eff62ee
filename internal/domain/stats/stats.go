package stats

// Snapshot is an on-demand aggregate over the record store.
// Sizes are human-readable strings as rendered by the database (e.g. "12 MB").
type Snapshot struct {
	totalRecords int64
	tableSize    string
	indexSize    string
	totalSize    string
}

// New creates a stats snapshot.
func New(totalRecords int64, tableSize, indexSize, totalSize string) Snapshot {
	return Snapshot{
		totalRecords: totalRecords,
		tableSize:    tableSize,
		indexSize:    indexSize,
		totalSize:    totalSize,
	}
}

// TotalRecords returns the record count.
func (s Snapshot) TotalRecords() int64 { return s.totalRecords }

// TableSize returns the heap size.
func (s Snapshot) TableSize() string { return s.tableSize }

// IndexSize returns the combined size of all indexes.
func (s Snapshot) IndexSize() string { return s.indexSize }

// TotalSize returns heap + indexes + toast.
func (s Snapshot) TotalSize() string { return s.totalSize }
