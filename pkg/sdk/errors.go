package worldsearch

import (
	"github.com/kailas-cloud/worldsearch/internal/db"
	"github.com/kailas-cloud/worldsearch/internal/domain"
)

// Sentinel errors re-exported from the domain and storage layers.
// Use errors.Is() to check.
var (
	ErrInvalidCount          = domain.ErrInvalidCount
	ErrInvalidQuery          = domain.ErrInvalidQuery
	ErrMaintenanceInProgress = domain.ErrMaintenanceInProgress
	ErrStoreUnavailable      = domain.ErrStoreUnavailable
	ErrPoolTimeout           = db.ErrPoolTimeout
)
