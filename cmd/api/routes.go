package main

import (
	"context"
	"net/http"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/stats"
)

const readyTimeout = 500 * time.Millisecond

func newRouter(books *book.HTTPHandler, st *stats.HTTPHandler, ready func(context.Context) error) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	books.Register(router)
	st.Register(router)
	return router
}
