package handler

import "github.com/square15/backend/internal/interfaces/http/dto"

// APIResponse is the typed response envelope referenced by the OpenAPI
// annotations. At runtime handlers write dto.Response; this generic
// mirror exists so swag can document the data field's concrete type.
// @Description Response envelope with a typed data payload
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse documents the failure envelope.
// @Description Failure envelope carrying an error code and message
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// SuccessResponse documents a bare success envelope.
// @Description Success envelope with no data payload
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// CountData is the payload of the count endpoints on invoices,
// quotations and campaigns.
// @Description Row count for a filtered collection
type CountData struct {
	Count int64 `json:"count"`
}
