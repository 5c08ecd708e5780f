// Package server exposes the census client as a read-only HTTP gateway.
//
// Routes:
//
//	GET /v1/acs/{survey}?variables=B01003_001E,B19013_001E&geography=county&state=CA
//	GET /v1/fips/{code}
//	GET /healthz
//	GET /metrics
//
// The ACS route also takes year, county, shape (table, records, columns or
// arrow), moe=true for margin-of-error variables and format (json, csv or
// parquet). Errors are JSON objects with the error code and message.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/censusacs/pkg/census"
	errs "github.com/matzehuels/censusacs/pkg/errors"
	acsio "github.com/matzehuels/censusacs/pkg/io"
)

// Querier runs ACS queries. *census.Client implements it.
type Querier interface {
	Query(ctx context.Context, q census.Query) (census.Result, error)
}

// Server routes gateway requests to a Querier.
type Server struct {
	querier  Querier
	logger   *log.Logger
	gatherer prometheus.Gatherer
	router   chi.Router
}

// New creates a server. A nil gatherer serves the default Prometheus
// registry on /metrics; a nil logger uses log.Default().
func New(q Querier, logger *log.Logger, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{querier: q, logger: logger, gatherer: gatherer}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/acs/{survey}", s.handleACS)
		r.Get("/fips/{code}", s.handleFIPS)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleACS(w http.ResponseWriter, r *http.Request) {
	q, format, err := parseACSQuery(chi.URLParam(r, "survey"), r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.querier.Query(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch format {
	case acsio.FormatCSV:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	case acsio.FormatParquet:
		w.Header().Set("Content-Type", "application/vnd.apache.parquet")
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	w.Header().Set("X-Result-Rows", strconv.Itoa(res.Len()))
	w.WriteHeader(http.StatusOK)
	if err := acsio.Write(res, format, w); err != nil {
		loggerFrom(r.Context(), s.logger).Error("write response", "err", err)
	}
}

func (s *Server) handleFIPS(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	fips, err := census.StatePostalToFIPS(code)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"state": strings.ToUpper(code), "fips": fips})
}

// parseACSQuery reads the query parameters of the ACS route. Values are
// only parsed here; range checks happen in the client.
func parseACSQuery(survey string, r *http.Request) (census.Query, acsio.Format, error) {
	params := r.URL.Query()

	sv, err := census.ParseSurvey(survey)
	if err != nil {
		return census.Query{}, "", err
	}
	geo, err := census.ParseGeography(params.Get("geography"))
	if err != nil {
		return census.Query{}, "", err
	}
	shape, err := census.ParseShape(params.Get("shape"))
	if err != nil {
		return census.Query{}, "", err
	}

	var year int
	if y := params.Get("year"); y != "" {
		if year, err = strconv.Atoi(y); err != nil {
			return census.Query{}, "", errs.New(errs.ErrCodeInvalidArgument, "year must be an integer, got %q", y)
		}
	}

	fam := census.Estimate
	if moe := params.Get("moe"); moe != "" {
		on, err := strconv.ParseBool(moe)
		if err != nil {
			return census.Query{}, "", errs.New(errs.ErrCodeInvalidArgument, "moe must be a boolean, got %q", moe)
		}
		if on {
			fam = census.MarginOfError
		}
	}

	format := acsio.FormatJSON
	if f := params.Get("format"); f != "" {
		if format, err = acsio.ParseFormat(f); err != nil {
			return census.Query{}, "", err
		}
	}

	var variables []string
	for _, v := range params["variables"] {
		for _, code := range strings.Split(v, ",") {
			if code = strings.TrimSpace(code); code != "" {
				variables = append(variables, code)
			}
		}
	}

	return census.Query{
		Variables: variables,
		Geography: geo,
		Year:      year,
		Survey:    sv,
		State:     params.Get("state"),
		County:    params.Get("county"),
		Shape:     shape,
		Family:    fam,
	}, format, nil
}

// =============================================================================
// Errors
// =============================================================================

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// httpStatus maps an error to the response status. Context errors win over
// codes because the client reports them wrapped in FETCH_ERROR.
func httpStatus(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidArgument, errs.ErrCodeUnsupportedYear:
		return http.StatusBadRequest
	case errs.ErrCodeFetch, errs.ErrCodeNetwork:
		return http.StatusBadGateway
	case errs.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatus(err)
	code := string(errs.GetCode(err))
	if code == "" {
		code = string(errs.ErrCodeInternal)
	}

	logger := loggerFrom(r.Context(), s.logger)
	if status >= 500 {
		logger.Error("request failed", "status", status, "err", err)
	} else {
		logger.Debug("request rejected", "status", status, "err", err)
	}

	writeJSON(w, status, errorResponse{
		Error:     code,
		Message:   errs.UserMessage(err),
		RequestID: requestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const (
	requestIDKey ctxKey = iota
	loggerKey
)

// requestIDHeader carries the request ID in both directions.
const requestIDHeader = "X-Request-ID"

// requestID assigns each request an ID, reusing a well-formed incoming one,
// and attaches a logger tagged with it.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		ctx = context.WithValue(ctx, loggerKey, s.logger.With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		loggerFrom(r.Context(), s.logger).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func loggerFrom(ctx context.Context, fallback *log.Logger) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return fallback
}
