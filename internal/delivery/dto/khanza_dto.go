package dto

// KhanzaRowsResponse wraps rows read from Khanza, already in canonical keys.
type KhanzaRowsResponse struct {
	Rows  []map[string]any `json:"rows"`
	Total int              `json:"total"`
}
