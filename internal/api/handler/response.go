package handler

import (
	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

// successResponse is the envelope of every successful API response.
type successResponse struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Filters any               `json:"filters,omitempty"`
	User    *domain.Principal `json:"user,omitempty"`
	Message string            `json:"message,omitempty"`
}

// filtersEcho reports the narrowed filter that was actually applied.
type filtersEcho struct {
	ClientID      string `json:"clientId,omitempty"`
	UserID        string `json:"userId,omitempty"`
	DateFrom      string `json:"dateFrom,omitempty"`
	DateTo        string `json:"dateTo,omitempty"`
	TrafficSource string `json:"trafficSource,omitempty"`
}

type comparisonFiltersEcho struct {
	Current  filtersEcho `json:"current"`
	Previous filtersEcho `json:"previous"`
}

type trendFiltersEcho struct {
	filtersEcho
	Days int `json:"days"`
}

type callListFiltersEcho struct {
	filtersEcho
	Stage string `json:"stage,omitempty"`
}

type pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

func echoFilter(f domain.MetricsFilter) filtersEcho {
	return filtersEcho{
		ClientID:      f.ClientID,
		UserID:        f.UserID,
		DateFrom:      domain.FormatBoundary(f.DateFrom),
		DateTo:        domain.FormatBoundary(f.DateTo),
		TrafficSource: string(f.TrafficSource),
	}
}

func success(data any, filters any, p domain.Principal) successResponse {
	return successResponse{Success: true, Data: data, Filters: filters, User: &p}
}

// ErrorBody describes a failure.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse is the canonical error envelope for all API errors.
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
}
