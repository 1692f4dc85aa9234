package stats

import (
	"errors"
	"net/http"
	"strconv"

	"bookstore/internal/httpx"

	"github.com/rs/zerolog"
)

type HTTPHandler struct {
	service *Service
	log     zerolog.Logger
}

func NewHTTPHandler(service *Service, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// Register mounts the stats routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /stats/genres/average-price", h.AveragePriceByGenre)
	mux.HandleFunc("GET /stats/authors/top", h.TopAuthors)
	mux.HandleFunc("GET /stats/decades", h.CountByDecade)
}

// AveragePriceByGenre handles GET /stats/genres/average-price
func (h *HTTPHandler) AveragePriceByGenre(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.AveragePriceByGenre(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rows, nil)
}

// TopAuthors handles GET /stats/authors/top
func (h *HTTPHandler) TopAuthors(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", []httpx.ErrorDetail{
				{Field: "limit", Message: "limit must be an integer"},
			})
			return
		}
		limit = n
	}

	rows, err := h.service.TopAuthors(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rows, nil)
}

// CountByDecade handles GET /stats/decades
func (h *HTTPHandler) CountByDecade(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.CountByDecade(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rows, nil)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrInvalidLimit) {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", []httpx.ErrorDetail{
			{Field: "limit", Message: err.Error()},
		})
		return
	}
	h.log.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Str("path", r.URL.Path).Msg("stats request failed")
	httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}
