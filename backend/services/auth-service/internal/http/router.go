package httpserver

import "net/http"

// Routes aggregates handlers for HTTP server.
type Routes struct {
	Signup http.HandlerFunc
	Login  http.HandlerFunc
	Health http.HandlerFunc
}

// NewRouter wires all HTTP routes.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.Signup != nil {
		mux.HandleFunc("POST /auth/signup", routes.Signup)
	}
	if routes.Login != nil {
		mux.HandleFunc("POST /auth/login", routes.Login)
	}
	if routes.Health != nil {
		mux.HandleFunc("GET /health", routes.Health)
	}
	return mux
}
