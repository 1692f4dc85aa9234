package book

import (
	"encoding/json"
	"errors"
	"maps"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"bookstore/internal/httpx"

	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// maxPage keeps (page-1)*maxPageSize within int.
	maxPage = math.MaxInt / maxPageSize
)

type HTTPHandler struct {
	service *Service
	log     zerolog.Logger
}

func NewHTTPHandler(service *Service, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// Register mounts the book routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("GET /books/summaries", h.ListSummaries)
	mux.HandleFunc("GET /books/{title}", h.GetByTitle)
	mux.HandleFunc("POST /books", h.Create)
	mux.HandleFunc("PATCH /books/{title}", h.Update)
	mux.HandleFunc("PUT /books/{title}/price", h.UpdatePrice)
	mux.HandleFunc("DELETE /books/{title}", h.Delete)
}

type page struct {
	Number int
	Size   int
}

// parseQuery reads filters and the page window from the URL. A cursor,
// when present, wins over page/page_size.
func parseQuery(r *http.Request) (Query, page, error) {
	query := r.URL.Query()

	q := Query{
		Genre:  query.Get("genre"),
		Author: query.Get("author"),
		Title:  query.Get("title"),
		Sort:   query.Get("sort"),
		Desc:   query.Get("desc") == "true",
	}

	if v := query.Get("published_after"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return Query{}, page{}, invalid("published_after", "published_after must be an integer year")
		}
		q.PublishedAfter = &year
	}

	if v := query.Get("in_stock"); v != "" {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			return Query{}, page{}, invalid("in_stock", "in_stock must be true or false")
		}
		q.InStock = &inStock
	}

	if cursor := query.Get("cursor"); cursor != "" {
		data, err := DecodeCursor(cursor)
		if err != nil {
			return Query{}, page{}, invalid("cursor", "cursor is malformed")
		}
		if data.Limit > maxPageSize || data.Offset/data.Limit >= maxPage-1 {
			return Query{}, page{}, invalid("cursor", "cursor window is out of range")
		}
		q.Offset, q.Limit = data.Offset, data.Limit
		return q, page{Number: data.Offset/data.Limit + 1, Size: data.Limit}, nil
	}

	pageNum, _ := strconv.Atoi(query.Get("page"))
	if pageNum < 1 {
		pageNum = 1
	}
	if pageNum > maxPage {
		return Query{}, page{}, invalid("page", "page is out of range")
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	q.Limit = pageSize
	q.Offset = (pageNum - 1) * pageSize
	return q, page{Number: pageNum, Size: pageSize}, nil
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	q, p, err := parseQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	books, total, err := h.service.List(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	meta := map[string]any{
		"page":        p.Number,
		"page_size":   p.Size,
		"total":       total,
		"total_pages": (total + p.Size - 1) / p.Size,
	}
	if next := NextCursor(q.Offset, q.Limit, total); next != "" {
		meta["next_cursor"] = next
	}
	httpx.JSONSuccess(w, r, books, meta)
}

// ListSummaries handles GET /books/summaries
func (h *HTTPHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	q, p, err := parseQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summaries, err := h.service.ListSummaries(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, summaries, map[string]any{
		"page":      p.Number,
		"page_size": p.Size,
	})
}

// GetByTitle handles GET /books/{title}
func (h *HTTPHandler) GetByTitle(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetByTitle(r.Context(), r.PathValue("title"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var b Book
	if err := decodeBody(r, &b); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if err := h.service.Create(r.Context(), &b); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, b)
}

// Update handles PATCH /books/{title}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p Patch
	if err := decodeBody(r, &p); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	h.applyUpdate(w, r, p)
}

type priceRequest struct {
	Price *float64 `json:"price"`
}

// UpdatePrice handles PUT /books/{title}/price
func (h *HTTPHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if req.Price == nil {
		h.writeError(w, r, invalid("price", "price is required"))
		return
	}
	h.applyUpdate(w, r, Patch{Price: req.Price})
}

func (h *HTTPHandler) applyUpdate(w http.ResponseWriter, r *http.Request, p Patch) {
	title := r.PathValue("title")
	if err := h.service.Update(r.Context(), title, p); err != nil {
		h.writeError(w, r, err)
		return
	}

	b, err := h.service.GetByTitle(r.Context(), title)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /books/{title}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("title")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]httpx.ErrorDetail, len(verr.Fields))
		for i, f := range verr.Fields {
			details[i] = httpx.ErrorDetail{Field: f.Field, Message: f.Message}
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
	case errors.Is(err, ErrInvalidSort):
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Unsupported sort field", []httpx.ErrorDetail{
			{Field: "sort", Message: "sort must be one of " + sortFieldList()},
		})
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	default:
		h.log.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Str("path", r.URL.Path).Msg("book request failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

func sortFieldList() string {
	return strings.Join(slices.Sorted(maps.Keys(SortFields)), ", ")
}
