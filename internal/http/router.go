package httpserver

import "net/http"

// Routes groups HTTP handlers.
type Routes struct {
	Trigger http.HandlerFunc
	Health  http.HandlerFunc
}

// NewRouter registers service endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.Trigger != nil {
		mux.Handle("/trigger", method(http.MethodPost, routes.Trigger))
	}
	if routes.Health != nil {
		mux.Handle("/healthz", method(http.MethodGet, routes.Health))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
