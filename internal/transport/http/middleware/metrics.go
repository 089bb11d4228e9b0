package middleware

import (
	"net/http"
	"time"
)

type RequestRecorder interface {
	Record(method, action string, status int, duration time.Duration)
}

func Metrics(recorder RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			recorder.Record(r.Method, actionOf(r), rec.status, time.Since(start))
		})
	}
}
