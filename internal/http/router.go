package httpserver

import (
	"log"
	"net/http"

	"github.com/jobby/job-board-back/internal/http/handlers"
	"github.com/jobby/job-board-back/internal/http/middleware"
)

type RouterDependencies struct {
	API            *handlers.API
	Logger         *log.Logger
	AuthToken      string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(deps RouterDependencies) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", deps.API.Health)
	mux.HandleFunc("/remote", deps.API.RemoteSearch)
	mux.HandleFunc("/adzuna", deps.API.AdzunaSearch)
	mux.HandleFunc("/search", deps.API.LocalSearch)
	mux.HandleFunc("/chat", deps.API.Chat)
	mux.HandleFunc("/listings/", deps.API.SimilarListings)

	handler := http.Handler(mux)
	handler = middleware.Auth(deps.AuthToken)(handler)
	handler = middleware.RateLimit(deps.RateLimitRPS, deps.RateLimitBurst)(handler)
	handler = middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: deps.CORSOrigins,
	})(handler)
	handler = middleware.Trace(deps.Logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
