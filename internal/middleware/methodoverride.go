package middleware

import (
	"net/http"
	"strings"
)

// MethodOverrideParam is the query parameter HTML forms use to ask for PUT or DELETE.
const MethodOverrideParam = "_method"

// MethodOverride rewrites POST ...?_method=PUT|DELETE to the named method before
// routing. Other values, and non-POST requests, pass through unchanged.
// It must run before the router matches, so install it with chi's Mux.Use.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			switch m := strings.ToUpper(r.URL.Query().Get(MethodOverrideParam)); m {
			case http.MethodPut, http.MethodDelete, http.MethodPatch:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}
