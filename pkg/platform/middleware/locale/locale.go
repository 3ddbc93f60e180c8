package locale

import (
	"net/http"

	"poltem/pkg/platform/locale"
	"poltem/pkg/requestcontext"
)

// Middleware negotiates the response language from ?lang= or
// Accept-Language and stores it on the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := locale.Determine(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Language", l)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithLocale(r.Context(), l)))
	})
}
