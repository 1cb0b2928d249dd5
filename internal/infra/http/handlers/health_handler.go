package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type DBPinger interface {
	PingContext(ctx context.Context) error
}

type BrokerStatus interface {
	Healthy() bool
}

type CachePinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB        DBPinger
	RabbitMQ  BrokerStatus
	Cache     CachePinger
	StartTime time.Time
	Version   string
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler aceita nil para dependências opcionais (broker, cache),
// que aparecem como "not configured".
func NewHealthHandler(db DBPinger, rabbitMQ BrokerStatus, cache CachePinger, version string) *HealthHandler {
	return &HealthHandler{
		DB:        db,
		RabbitMQ:  rabbitMQ,
		Cache:     cache,
		StartTime: time.Now(),
		Version:   version,
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string)

	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			deps["database"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["database"] = "healthy"
		}
	} else {
		deps["database"] = "not configured"
	}

	if h.RabbitMQ != nil {
		if !h.RabbitMQ.Healthy() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	if h.Cache != nil {
		if err := h.Cache.Ping(ctx); err != nil {
			deps["redis"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["redis"] = "healthy"
		}
	} else {
		deps["redis"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      h.Version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}
