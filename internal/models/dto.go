package models

// ==================== Sync DTOs ====================

// SyncResult is the in-band outcome of a sync operation. Sync endpoints
// always answer HTTP 200; failure is reported here, not via status codes.
type SyncResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// RegionSyncResult is one region's outcome within POST /api/pricing/sync-all.
type RegionSyncResult struct {
	Region        string `json:"region"`
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ProductsCount int    `json:"products_count"`
}
