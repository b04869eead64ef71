package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"collab-app-backend/internal/api/middleware"
	"collab-app-backend/internal/env"
	"collab-app-backend/internal/queue"
)

type apiFunc func(http.ResponseWriter, *http.Request) error

func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func corsConfig() middleware.CORSConfig {
	origins := []string{"*"}
	if webURL := env.Get(env.WebUrl); webURL != "" {
		origins = []string{webURL}
	}
	return middleware.CORSConfig{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: false,
	}
}

func (s *APIServer) MakeHTTPHandleFunc(f apiFunc) http.HandlerFunc {
	baseHandler := func(w http.ResponseWriter, r *http.Request) {
		errc := make(chan error, 1)

		job := queue.Job{
			Fn: func() error {
				return f(w, r)
			},
			Errc: errc,
		}

		s.requestQueueManager.EnqueueJob(job)

		err := <-errc
		if err != nil {
			var httpErr *HTTPError
			if errors.As(err, &httpErr) {
				if httpErr.ErrorLog != nil {
					log.Println(httpErr.ErrorLog)
				}
				WriteJSON(w, httpErr.StatusCode, ApiError{Error: httpErr.Message})
			} else {
				log.Printf("unhandled handler error: %v", err)
				WriteJSON(w, http.StatusInternalServerError, ApiError{Error: "Internal server error"})
			}
		}
	}

	finalHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		baseHandler(w, r)
	}

	return middleware.Chain(finalHandler,
		middleware.CORS(corsConfig()),
		middleware.Logging(),
	)
}

// MakeWebsocketHandleFunc bypasses the request queue: an upgraded connection
// lives for the whole session and must not occupy a queue worker.
func (s *APIServer) MakeWebsocketHandleFunc(f apiFunc) http.HandlerFunc {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			log.Printf("websocket upgrade failed: %v", err)
		}
	}
	return middleware.Chain(handler, middleware.Logging())
}
