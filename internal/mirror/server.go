package mirror

import (
	"embed"
	"net/http"
	"time"

	"github.com/rs/cors"
)

//go:embed static/index.html
var static embed.FS

// Handler serves the read-only display page, the snapshot stream and a
// health check. allowedOrigins drives CORS for the plain HTTP routes; the
// hub applies its own origin list to /ws.
func Handler(hub *Hub, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		page, err := static.ReadFile("static/index.html")
		if err != nil {
			http.Error(w, "page unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	})
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodHead, http.MethodGet},
		AllowedOrigins: allowedOrigins,
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(mux)
}

func NewServer(addr string, hub *Hub, allowedOrigins []string) *http.Server {
	return &http.Server{
		Addr:        addr,
		Handler:     Handler(hub, allowedOrigins),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
}
