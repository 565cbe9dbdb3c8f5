package health

import (
	"encoding/json"
	"net/http"

	"github.com/rlindsey28/diceroller/logger"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

type Handler struct{}

type Response struct {
	Status string `json:"status"`
}

const name = "healthcheck"

var (
	tracer = otel.Tracer(name)
)

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), name)
	defer span.End()

	resp := Response{Status: "OK"}
	log := logger.FromCtx(ctx)
	log.Debug("health check", zap.String("status", resp.Status))
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("failed to encode response", zap.Error(err))
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
