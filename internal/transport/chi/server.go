package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ftwire"
	logpkg "github.com/kailas-cloud/ftwire/internal/logger"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest     = "bad_request"
	codeUnauthorized   = "unauthorized"
	codeIndexNotFound  = "index_not_found"
	codeCursorNotFound = "cursor_not_found"
	codeNotImplemented = "not_implemented"
	codeRateLimited    = "rate_limited"
	codeUpstream       = "upstream_error"
	codeTimeout        = "timeout"
	codeInternal       = "internal_error"
)

// Commands is the subset of *ftwire.Client the gateway serves.
type Commands interface {
	Ping(ctx context.Context) error
	FTList(ctx context.Context) (ftwire.Value, error)
	FTInfo(ctx context.Context, index string) (ftwire.Value, error)
	FTDropIndex(ctx context.Context, index string, dd bool) (ftwire.Value, error)
	FTSearch(ctx context.Context, index, query string, opts ftwire.SearchOptions) (ftwire.Value, error)
	FTAggregate(ctx context.Context, index, query string, opts ftwire.AggregateOptions) (ftwire.Value, error)
	FTExplain(ctx context.Context, index, query string, dialect *int64) (ftwire.Value, error)
	FTSpellCheck(ctx context.Context, index, query string, opts ftwire.SpellcheckOptions) (ftwire.Value, error)
	FTTagVals(ctx context.Context, index, field string) (ftwire.Value, error)
	FTSugAdd(ctx context.Context, key, s string, score float64, opts ftwire.SugAddOptions) (ftwire.Value, error)
	FTSugGet(ctx context.Context, key, prefix string, opts ftwire.SugGetOptions) (ftwire.Value, error)
}

var _ Commands = (*ftwire.Client)(nil)

// errorHandler tries to handle a command error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server is the HTTP/JSON gateway over the FT.* commands.
type Server struct {
	client        Commands
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP gateway server.
func NewServer(client Commands, logger *zap.Logger) *Server {
	s := &Server{client: client, logger: logger}
	s.errorHandlers = []errorHandler{
		conversionHandler,
		sentinelHandler(ftwire.ErrIndexNotFound, http.StatusNotFound, codeIndexNotFound),
		sentinelHandler(ftwire.ErrCursorNotFound, http.StatusNotFound, codeCursorNotFound),
		sentinelHandler(ftwire.ErrNotImplemented, http.StatusNotImplemented, codeNotImplemented),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, codeTimeout),
		upstreamHandler,
	}
	return s
}

// Routes mounts the gateway endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)

	r.Route("/indexes", func(r chi.Router) {
		r.Get("/", s.ListIndexes)
		r.Route("/{index}", func(r chi.Router) {
			r.Get("/", s.GetIndex)
			r.Delete("/", s.DropIndex)
			r.Post("/search", s.Search)
			r.Post("/aggregate", s.Aggregate)
			r.Post("/explain", s.Explain)
			r.Post("/spellcheck", s.Spellcheck)
			r.Get("/tags/{field}", s.TagValues)
		})
	})

	r.Post("/suggestions/{key}", s.AddSuggestion)
	r.Get("/suggestions/{key}", s.GetSuggestions)
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.client.Ping(r.Context()); err != nil {
		logpkg.FromContext(r.Context(), s.logger).Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ListIndexes handles GET /indexes.
func (s *Server) ListIndexes(w http.ResponseWriter, r *http.Request) {
	v, err := s.client.FTList(r.Context())
	s.respond(w, r, v, err)
}

// GetIndex handles GET /indexes/{index}.
func (s *Server) GetIndex(w http.ResponseWriter, r *http.Request) {
	v, err := s.client.FTInfo(r.Context(), chi.URLParam(r, "index"))
	s.respond(w, r, v, err)
}

// DropIndex handles DELETE /indexes/{index}?dd=true.
func (s *Server) DropIndex(w http.ResponseWriter, r *http.Request) {
	dd, err := boolQuery(r, "dd")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	v, err := s.client.FTDropIndex(r.Context(), chi.URLParam(r, "index"), dd)
	s.respond(w, r, v, err)
}

// Search handles POST /indexes/{index}/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	opts, err := req.options()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	v, err := s.client.FTSearch(r.Context(), chi.URLParam(r, "index"), queryOrAll(req.Query), opts)
	s.respond(w, r, v, err)
}

// Aggregate handles POST /indexes/{index}/aggregate.
func (s *Server) Aggregate(w http.ResponseWriter, r *http.Request) {
	var req aggregateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	opts, err := req.options()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	v, err := s.client.FTAggregate(r.Context(), chi.URLParam(r, "index"), queryOrAll(req.Query), opts)
	s.respond(w, r, v, err)
}

// Explain handles POST /indexes/{index}/explain.
func (s *Server) Explain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if !decodeBody(w, r, &req) {
		return
	}
	v, err := s.client.FTExplain(r.Context(), chi.URLParam(r, "index"), queryOrAll(req.Query), req.Dialect)
	s.respond(w, r, v, err)
}

// Spellcheck handles POST /indexes/{index}/spellcheck.
func (s *Server) Spellcheck(w http.ResponseWriter, r *http.Request) {
	var req spellcheckRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query is required")
		return
	}
	opts, err := req.options()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	v, err := s.client.FTSpellCheck(r.Context(), chi.URLParam(r, "index"), req.Query, opts)
	s.respond(w, r, v, err)
}

// TagValues handles GET /indexes/{index}/tags/{field}.
func (s *Server) TagValues(w http.ResponseWriter, r *http.Request) {
	v, err := s.client.FTTagVals(r.Context(), chi.URLParam(r, "index"), chi.URLParam(r, "field"))
	s.respond(w, r, v, err)
}

// AddSuggestion handles POST /suggestions/{key}.
func (s *Server) AddSuggestion(w http.ResponseWriter, r *http.Request) {
	var req sugAddRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.String == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "string is required")
		return
	}
	opts := ftwire.SugAddOptions{Incr: req.Incr}
	if req.Payload != nil {
		opts.Payload = []byte(*req.Payload)
	}
	v, err := s.client.FTSugAdd(r.Context(), chi.URLParam(r, "key"), req.String, req.Score, opts)
	s.respond(w, r, v, err)
}

// GetSuggestions handles GET /suggestions/{key}?prefix=&fuzzy=&with_scores=&with_payloads=&max=.
func (s *Server) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prefix := q.Get("prefix")
	if prefix == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "prefix is required")
		return
	}

	var opts ftwire.SugGetOptions
	var err error
	if opts.Fuzzy, err = boolQuery(r, "fuzzy"); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	if opts.WithScores, err = boolQuery(r, "with_scores"); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	if opts.WithPayloads, err = boolQuery(r, "with_payloads"); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	if raw := q.Get("max"); raw != "" {
		m, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "max must be a non-negative integer")
			return
		}
		opts.Max = &m
	}

	v, err := s.client.FTSugGet(r.Context(), chi.URLParam(r, "key"), prefix, opts)
	s.respond(w, r, v, err)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, v ftwire.Value, err error) {
	if err != nil {
		s.handleCommandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Result: v.Interface()})
}

func (s *Server) handleCommandError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger)
	log.Warn("command error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}

// conversionHandler reports arguments that have no wire representation.
func conversionHandler(w http.ResponseWriter, err error) bool {
	var ce *ftwire.ConversionError
	if !errors.As(err, &ce) {
		return false
	}
	writeError(w, http.StatusBadRequest, codeBadRequest, ce.Error())
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// upstreamHandler maps any other command failure to 502 without exposing server text.
func upstreamHandler(w http.ResponseWriter, err error) bool {
	var cmdErr *ftwire.Error
	if !errors.As(err, &cmdErr) {
		return false
	}
	writeError(w, http.StatusBadGateway, codeUpstream, cmdErr.Op+" failed")
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func boolQuery(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New(name + " must be a boolean")
	}
	return b, nil
}

func queryOrAll(q string) string {
	if q == "" {
		return "*"
	}
	return q
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
