package api

import (
	"time"

	"github.com/jeovahfialho/stock-dashboard/internal/domain"
)

// Response é o envelope de todas as rotas /api: data preenchido ou error preenchido.
type Response struct {
	Data  interface{} `json:"data"`
	Error *string     `json:"error"`
}

// Tipos usados só pela documentação swagger.
type StocksResponse struct {
	Data  []domain.Snapshot `json:"data"`
	Error *string           `json:"error"`
}

type DatesResponse struct {
	Data  []string `json:"data" example:"2024-01-02,2024-01-01"`
	Error *string  `json:"error"`
}

type StatsResponse struct {
	Data  *domain.Stats `json:"data"`
	Error *string       `json:"error"`
}

type ErrorResponse struct {
	Data  interface{} `json:"data"`
	Error string      `json:"error" example:"method not allowed"`
}

type HealthResponse struct {
	Status    string                   `json:"status"`
	Version   string                   `json:"version"`
	Timestamp time.Time                `json:"timestamp"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

type ServiceHealth struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}
