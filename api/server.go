package api

import (
	"context"
	goerrors "errors"
	"event-lab/auth"
	"event-lab/domain"
	"event-lab/errors"
	"event-lab/services"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Server adapts the event and summary services to HTTP. It owns no
// domain logic: it decodes, validates, authenticates, and maps typed
// errors onto the response envelope.
type Server struct {
	log       *slog.Logger
	events    services.IEventService
	summaries services.ISummaryService
	verifier  *auth.Verifier
	now       func() time.Time
}

func NewServer(log *slog.Logger, events services.IEventService, summaries services.ISummaryService, verifier *auth.Verifier) *Server {
	return &Server{
		log:       log,
		events:    events,
		summaries: summaries,
		verifier:  verifier,
		now:       time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/events", s.withAuth(s.handleCreateEvent))
	mux.HandleFunc("GET /api/events", s.withAuth(s.handleListEvents))
	mux.HandleFunc("GET /api/public/events", s.handleListPublicEvents)
	mux.HandleFunc("PATCH /api/events/{id}", s.withAuth(s.handleUpdateEvent))
	mux.HandleFunc("GET /api/events/{id}/summary", s.handleSummary)
	return mux
}

type actorKey struct{}

// withAuth resolves the bearer token before the core runs; a missing or
// invalid token never reaches a service.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		actor, err := s.verifier.Authenticate(token)
		if err != nil {
			unauthorized(w)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
	}
}

func actorFrom(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, []ErrorDetail{{Field: "body", Message: err.Error()}})
		return
	}
	if details := ValidateCreate(req, s.now()); len(details) > 0 {
		badRequest(w, details)
		return
	}

	created, err := s.events.Create(r.Context(), req.Command(actorFrom(r.Context())))
	if err != nil {
		s.log.Error("Create event failed", "error", err)
		serverError(w)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	query, details := parseListQuery(r)
	if len(details) > 0 {
		badRequest(w, details)
		return
	}

	list, err := s.events.List(r.Context(), query)
	if err != nil {
		s.log.Error("List events failed", "error", err)
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events":  list.Events,
		"total":   list.Total,
		"page":    list.Page,
		"limit":   list.Limit,
		"hasMore": list.HasMore,
	})
}

func (s *Server) handleListPublicEvents(w http.ResponseWriter, r *http.Request) {
	query, details := parseListQuery(r)
	if len(details) > 0 {
		badRequest(w, details)
		return
	}
	// The status filter is admin-only; visibility is decided by the
	// service, not the caller.
	query.Status = nil

	list, err := s.events.ListPublic(r.Context(), query)
	if err != nil {
		s.log.Error("List public events failed", "error", err)
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events":  list.Events,
		"total":   list.Total,
		"page":    list.Page,
		"limit":   list.Limit,
		"hasMore": list.HasMore,
	})
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequest(w, []ErrorDetail{{Field: "id", Message: "Event ID is required"}})
		return
	}

	var req UpdateEventRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, []ErrorDetail{{Field: "body", Message: err.Error()}})
		return
	}
	if details := ValidateUpdate(req); len(details) > 0 {
		badRequest(w, details)
		return
	}

	cmd := domain.UpdateEventCommand{ID: id, InternalNotes: req.InternalNotes}
	if req.Status != nil {
		status := domain.EventStatus(*req.Status)
		cmd.Status = &status
	}

	updated, err := s.events.Update(r.Context(), cmd)
	switch {
	case goerrors.Is(err, errors.ErrEventNotFound):
		notFound(w, "Event")
		return
	case goerrors.Is(err, errors.ErrInvalidTransition):
		badRequest(w, []ErrorDetail{{Field: "status", Message: transitionReason(err)}})
		return
	case err != nil:
		s.log.Error("Update event failed", "eventId", id, "error", err)
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequest(w, []ErrorDetail{{Field: "id", Message: "Event ID is required"}})
		return
	}

	e, err := s.events.Get(id)
	switch {
	case goerrors.Is(err, errors.ErrEventNotFound):
		notFound(w, "Event")
		return
	case err != nil:
		s.log.Error("Summary lookup failed", "eventId", id, "error", err)
		serverError(w)
		return
	}
	// Summaries exist only for events the public can see.
	if !e.Status.Public() {
		notFound(w, "Event")
		return
	}

	_, cached, stream := s.summaries.GenerateSummary(r.Context(), e.ID, e.Title, e.Location, e.StartAt, e.EndAt)
	s.writeStream(w, cached, stream)
}

// writeStream encodes the summary stream as text/event-stream. The
// cache header is inferred from the HIT/MISS decision the service
// already made; the first stream event repeats it for subscribers.
func (s *Server) writeStream(w http.ResponseWriter, cached bool, stream <-chan services.StreamEvent) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Summary-Cache", lo.Ternary(cached, "HIT", "MISS"))
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	for e := range stream {
		if err := writeSSE(w, e); err != nil {
			// Consumer went away; the producer stops on context
			// cancellation.
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func transitionReason(err error) string {
	reason := strings.TrimPrefix(err.Error(), errors.ErrInvalidTransition.Error())
	return strings.TrimPrefix(reason, ": ")
}

func parseListQuery(r *http.Request) (services.ListQuery, []ErrorDetail) {
	var query services.ListQuery
	var details []ErrorDetail
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		query.Status = lo.Map(strings.Split(raw, ","), func(s string, _ int) domain.EventStatus {
			return domain.EventStatus(strings.TrimSpace(s))
		})
	}
	if raw := q.Get("locations"); raw != "" {
		query.Locations = strings.Split(raw, ",")
	}
	if raw := q.Get("dateFrom"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			details = append(details, ErrorDetail{Field: "dateFrom", Message: "must be an ISO-8601 timestamp"})
		} else {
			query.DateFrom = &t
		}
	}
	if raw := q.Get("dateTo"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			details = append(details, ErrorDetail{Field: "dateTo", Message: "must be an ISO-8601 timestamp"})
		} else {
			query.DateTo = &t
		}
	}
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			details = append(details, ErrorDetail{Field: "page", Message: "must be a positive integer"})
		} else {
			query.Page = &n
		}
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			details = append(details, ErrorDetail{Field: "limit", Message: "must be a positive integer"})
		} else {
			query.Limit = &n
		}
	}
	return query, details
}
