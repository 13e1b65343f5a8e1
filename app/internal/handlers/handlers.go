package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"statuspage/app/internal/database"
	"statuspage/app/internal/heartbeat"
	"statuspage/app/internal/incidents"
	"statuspage/app/internal/models"
	"statuspage/app/internal/ratelimit"
	"statuspage/app/internal/stats"
	"statuspage/app/internal/status"
)

// Handler wires the core engines to the HTTP surface.
type Handler struct {
	store     *database.Store
	pipeline  *heartbeat.Pipeline
	reporter  *stats.Reporter
	incidents *incidents.Service
	limiter   *ratelimit.Limiter
	logger    zerolog.Logger
}

// New creates the HTTP handler set.
func New(store *database.Store, pipeline *heartbeat.Pipeline, reporter *stats.Reporter, incSvc *incidents.Service, limiter *ratelimit.Limiter, logger zerolog.Logger) *Handler {
	return &Handler{
		store:     store,
		pipeline:  pipeline,
		reporter:  reporter,
		incidents: incSvc,
		limiter:   limiter,
		logger:    logger,
	}
}

type pushBody struct {
	Status    string `json:"status"`
	LatencyMS *int   `json:"latency_ms"`
}

type uptimeResponse struct {
	Tag    string        `json:"tag"`
	Start  int64         `json:"start"`
	End    int64         `json:"end"`
	Result stats.Summary `json:"result"`
}

// HandleHeartbeat accepts a heartbeat push for one monitor. The secret
// travels in the X-Heartbeat-Secret header (or ?secret= for curl-style
// integrations). An optional JSON body may carry an explicit status.
func (h *Handler) HandleHeartbeat(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")

	if h.limiter != nil && !h.limiter.Allow(tag) {
		writeError(w, http.StatusTooManyRequests, h.limiter.ErrorMessage())
		return
	}

	secret := r.Header.Get("X-Heartbeat-Secret")
	if secret == "" {
		secret = r.URL.Query().Get("secret")
	}

	st := status.Up
	var latency *int
	if r.Body != nil && r.ContentLength != 0 {
		var body pushBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if body.Status != "" {
			parsed, ok := status.Parse(body.Status)
			if !ok {
				writeError(w, http.StatusBadRequest, "unknown status "+body.Status)
				return
			}
			st = parsed
		}
		latency = body.LatencyMS
	}

	result, err := h.pipeline.RegisterPush(r.Context(), tag, secret, st, latency)
	if err != nil {
		switch {
		case errors.Is(err, heartbeat.ErrMissingCredential):
			writeError(w, http.StatusBadRequest, "missing tag or secret")
		case errors.Is(err, heartbeat.ErrUnknownMonitor):
			writeError(w, http.StatusNotFound, "unknown monitor")
		case errors.Is(err, heartbeat.ErrSecretMismatch):
			writeError(w, http.StatusUnauthorized, "secret mismatch")
		default:
			h.logger.Error().Str("tag", tag).Err(err).Msg("heartbeat failed")
			writeError(w, http.StatusInternalServerError, "store unavailable")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(result)})
}

// HandleUptime returns the aggregated uptime for one monitor. The
// window comes from ?start=/&end= (epoch seconds) or ?hours=/&days=
// counting back from now.
func (h *Handler) HandleUptime(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")

	mon, err := h.store.FindMonitorByTag(r.Context(), tag)
	if err != nil {
		h.logger.Error().Str("tag", tag).Err(err).Msg("monitor lookup failed")
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}
	if mon == nil {
		writeError(w, http.StatusNotFound, "unknown monitor")
		return
	}

	window, err := windowFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sum, err := h.reporter.Uptime(r.Context(), *mon, window)
	if err != nil {
		if errors.Is(err, models.ErrInvalidWindow) {
			writeError(w, http.StatusBadRequest, "end before start")
			return
		}
		h.logger.Error().Str("tag", tag).Err(err).Msg("uptime query failed")
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}

	writeJSON(w, http.StatusOK, uptimeResponse{
		Tag:    tag,
		Start:  window.Start,
		End:    window.End,
		Result: sum,
	})
}

// HandleIncidents returns one page of incidents.
// Query: page, limit, start, status, type, direction (after|before).
func (h *Handler) HandleIncidents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	start, _ := strconv.ParseInt(q.Get("start"), 10, 64)

	filter := models.IncidentFilter{Start: start, Type: q.Get("type")}
	if raw := q.Get("status"); raw != "" {
		st, ok := status.Parse(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown status "+raw)
			return
		}
		filter.Status = st
	}

	dir := database.After
	if q.Get("direction") == string(database.Before) {
		dir = database.Before
	}

	list, err := h.incidents.List(r.Context(), filter, dir, page, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("incident listing failed")
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}
	if list == nil {
		list = []models.Incident{}
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleIncidentDays returns per-day incident buckets for a monitor.
// Query: tag (required), start, end, tz (IANA name, default UTC).
func (h *Handler) HandleIncidentDays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tag := q.Get("tag")
	if tag == "" {
		writeError(w, http.StatusBadRequest, "missing tag")
		return
	}

	window, err := windowFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	buckets, err := h.incidents.DayBuckets(r.Context(), tag, window, q.Get("tz"))
	if err != nil {
		if errors.Is(err, models.ErrInvalidWindow) {
			writeError(w, http.StatusBadRequest, "end before start")
			return
		}
		h.logger.Error().Str("tag", tag).Err(err).Msg("day bucketing failed")
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}

	type dayOut struct {
		Day    int64             `json:"day"`
		Bucket *models.DayBucket `json:"bucket"`
	}
	out := make([]dayOut, 0, buckets.Len())
	for _, day := range buckets.Days() {
		out = append(out, dayOut{Day: day, Bucket: buckets.Get(day)})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleHealthz is the liveness endpoint.
func (h *Handler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// windowFromQuery builds the query window. Explicit start/end win;
// otherwise hours/days count back from now (default: last 24 hours).
func windowFromQuery(r *http.Request) (models.TimeWindow, error) {
	q := r.URL.Query()
	now := time.Now().UTC().Unix()

	if q.Get("start") != "" || q.Get("end") != "" {
		start, err := strconv.ParseInt(q.Get("start"), 10, 64)
		if err != nil {
			return models.TimeWindow{}, errors.New("invalid start")
		}
		end := now
		if q.Get("end") != "" {
			end, err = strconv.ParseInt(q.Get("end"), 10, 64)
			if err != nil {
				return models.TimeWindow{}, errors.New("invalid end")
			}
		}
		return models.NewWindow(start, end)
	}

	hours := 24
	if v := q.Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			if n < 1 {
				n = 1
			}
			if n > 365 {
				n = 365
			}
			hours = n * 24
		}
	} else if v := q.Get("hours"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			if n < 1 {
				n = 1
			}
			if n > 24*365 {
				n = 24 * 365
			}
			hours = n
		}
	}
	return models.NewWindow(now-int64(hours)*3600, now)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
