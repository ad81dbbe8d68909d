package dto

type AuditLogPageDTO[T any] struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Logs  []T   `json:"logs"`
}
