package middleware

import (
	"log"
	"net/http"
)

// Recoverer converts panics into a generic 500 JSON response. The panic is
// logged server-side; nothing internal reaches the client.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("PANIC: %s %s: %v", r.Method, r.URL.Path, rec)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"success":false,"message":"Something went wrong!"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
