package rolldice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rlindsey28/diceroller/dice"
	"github.com/rlindsey28/diceroller/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Publisher delivers an encoded roll event. kafka.Publisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type Handler struct {
	Metrics   Metrics
	Publisher Publisher
	Limits    Limits
	// NewRoller is called once per request so concurrent requests never
	// share generator state. Defaults to a roller over dice.NewSource.
	NewRoller func() *dice.Roller
	Now       func() time.Time
}

// Limits caps a single request. Zero means unbounded.
type Limits struct {
	MaxDice  int
	MaxSides int
}

type Metrics struct {
	RequestCount metric.Int64Counter
	DiceRolled   metric.Int64Counter
	Totals       metric.Int64Histogram
}

type Request struct {
	Dice     int    `json:"dice"`
	Sides    int    `json:"sides"`
	Modifier int    `json:"modifier"`
	Mode     string `json:"mode"`
}

// Response is both the HTTP response body and the published roll event.
type Response struct {
	Mode     Mode             `json:"mode"`
	Sides    int              `json:"sides"`
	Roll     *dice.RollResult `json:"roll,omitempty"`
	Value    *int             `json:"value,omitempty"`
	Display  string           `json:"display"`
	RolledAt time.Time        `json:"rolled_at"`
}

var ErrLimitExceeded = errors.New("rolldice: request exceeds service limits")

const name = "rolldice"

var (
	tracer = otel.Tracer(name)
)

func (m *Metrics) InitMetrics() {
	log := logger.Get()
	meter := otel.Meter(name)
	fallback := noop.NewMeterProvider().Meter(name)

	var err error
	m.RequestCount, err = meter.Int64Counter("dice.requests",
		metric.WithDescription("The number of API calls"),
		metric.WithUnit("{call}"))
	if err != nil {
		log.Error("failed to create counter", zap.Error(err))
		m.RequestCount, _ = fallback.Int64Counter("dice.requests")
	}

	m.DiceRolled, err = meter.Int64Counter("dice.rolled",
		metric.WithDescription("The number of dice drawn"),
		metric.WithUnit("{die}"))
	if err != nil {
		log.Error("failed to create counter", zap.Error(err))
		m.DiceRolled, _ = fallback.Int64Counter("dice.rolled")
	}

	m.Totals, err = meter.Int64Histogram("dice.total",
		metric.WithDescription("The kept value or total of each roll"))
	if err != nil {
		log.Error("failed to create histogram", zap.Error(err))
		m.Totals, _ = fallback.Int64Histogram("dice.total")
	}
}

func (h *Handler) RollDice(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "rollDice")
	defer span.End()
	log := logger.FromCtx(ctx)
	h.Metrics.RequestCount.Add(ctx, 1)

	rdr := &Request{}
	if err := json.NewDecoder(r.Body).Decode(rdr); err != nil {
		log.Error("failed to decode RollDiceRequest", zap.Error(err))
		span.SetStatus(otelcodes.Error, "failed to decode RollDiceRequest")
		span.RecordError(err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	mode, err := ParseMode(rdr.Mode)
	if err != nil {
		log.Error("invalid mode", zap.Error(err))
		span.SetStatus(otelcodes.Error, "invalid mode")
		span.RecordError(err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Debug("rolldice request", zap.Any("request", rdr))
	resp, err := h.roll(ctx, mode, rdr)
	if err != nil {
		span.SetStatus(otelcodes.Error, "failed to roll dice")
		span.RecordError(err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	log.Info("rolldice response", zap.String("display", resp.Display))

	body, err := json.Marshal(resp)
	if err != nil {
		log.Error("failed to encode RollDiceResponse", zap.Error(err))
		span.SetStatus(otelcodes.Error, "failed to encode RollDiceResponse")
		span.RecordError(err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		log.Error("failed to write RollDiceResponse", zap.Error(err))
	}

	h.publishRoll(ctx, mode, body)
}

func (h *Handler) roll(ctx context.Context, mode Mode, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "roll", trace.WithAttributes(
		attribute.String("dice.mode", string(mode)),
		attribute.Int("dice.count", req.Dice),
		attribute.Int("dice.sides", req.Sides),
		attribute.Int("dice.modifier", req.Modifier),
	))
	defer span.End()
	log := logger.FromCtx(ctx)

	if err := h.Limits.check(mode, req); err != nil {
		log.Error("invalid input", zap.Error(err))
		span.SetStatus(otelcodes.Error, err.Error())
		span.RecordError(err)
		return nil, err
	}

	roller := h.roller()
	resp := &Response{Mode: mode, Sides: req.Sides, RolledAt: h.now()}
	attrs := metric.WithAttributes(attribute.String("mode", string(mode)), attribute.Int("sides", req.Sides))

	switch mode {
	case ModeAdvantage, ModeDisadvantage:
		keep := roller.RollWithAdvantage
		if mode == ModeDisadvantage {
			keep = roller.RollWithDisadvantage
		}
		v, err := keep(req.Sides)
		if err != nil {
			log.Error("invalid input", zap.Error(err))
			span.SetStatus(otelcodes.Error, err.Error())
			span.RecordError(err)
			return nil, err
		}
		resp.Value = &v
		resp.Display = fmt.Sprintf("d%d with %s: %d", req.Sides, mode, v)
		h.Metrics.DiceRolled.Add(ctx, 2, attrs)
		h.Metrics.Totals.Record(ctx, int64(v), attrs)
	default:
		result, err := roller.RollWithModifier(req.Dice, req.Sides, req.Modifier)
		if err != nil {
			log.Error("invalid input", zap.Error(err))
			span.SetStatus(otelcodes.Error, err.Error())
			span.RecordError(err)
			return nil, err
		}
		resp.Roll = &result
		resp.Display = result.String()
		h.Metrics.DiceRolled.Add(ctx, int64(result.DiceCount), attrs)
		h.Metrics.Totals.Record(ctx, int64(result.Total), attrs)
	}

	span.SetStatus(otelcodes.Ok, "success")
	return resp, nil
}

func (h *Handler) publishRoll(ctx context.Context, mode Mode, roll json.RawMessage) {
	if h.Publisher == nil {
		return
	}
	log := logger.FromCtx(ctx)
	span := trace.SpanFromContext(ctx)

	if err := h.Publisher.Publish(ctx, string(mode), roll); err != nil {
		span.RecordError(err)
		log.Error("failed to publish roll", zap.Error(err))
	}
}

func (h *Handler) roller() *dice.Roller {
	if h.NewRoller != nil {
		return h.NewRoller()
	}
	return dice.NewRoller(dice.NewSource())
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

func (l Limits) check(mode Mode, req *Request) error {
	if mode == ModeNormal && l.MaxDice > 0 && req.Dice > l.MaxDice {
		return fmt.Errorf("%w: at most %d dice per roll", ErrLimitExceeded, l.MaxDice)
	}
	if l.MaxSides > 0 && req.Sides > l.MaxSides {
		return fmt.Errorf("%w: at most %d sides per die", ErrLimitExceeded, l.MaxSides)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrLimitExceeded),
		errors.Is(err, dice.ErrInvalidSides),
		errors.Is(err, dice.ErrInvalidCount):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
