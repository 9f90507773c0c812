package client

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-pkgz/requester/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snooze",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Requests sent to the stories API, by endpoint and status code.",
	}, []string{"endpoint", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "snooze",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Latency of requests sent to the stories API.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// Metrics records the count and latency of every request, labelled with the endpoint name stored in the
// request context. Failed round trips are counted with the code "error".
func Metrics(next http.RoundTripper) http.RoundTripper {
	return middleware.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		e := endpoint(req.Context())
		start := time.Now()
		res, err := next.RoundTrip(req)
		requestDuration.WithLabelValues(e).Observe(time.Since(start).Seconds())

		code := "error"
		if err == nil {
			code = strconv.Itoa(res.StatusCode)
		}
		requestsTotal.WithLabelValues(e, code).Inc()
		return res, err
	})
}

// Logging logs every request sent to the API. Tokens passed as query parameters are redacted.
func Logging(l zerolog.Logger) middleware.RoundTripperHandler {
	return func(next http.RoundTripper) http.RoundTripper {
		return middleware.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			res, err := next.RoundTrip(req)

			var event *zerolog.Event
			switch {
			case err != nil:
				event = l.Error().Err(err)
			case res.StatusCode >= http.StatusInternalServerError:
				event = l.Error().Int("status", res.StatusCode)
			case res.StatusCode >= http.StatusBadRequest:
				event = l.Warn().Int("status", res.StatusCode)
			default:
				event = l.Debug().Int("status", res.StatusCode)
			}

			event.Str("endpoint", endpoint(req.Context())).
				Str("method", req.Method).
				Str("url", redact(req.URL)).
				Dur("elapsed", time.Since(start)).
				Msg("stories api request")
			return res, err
		})
	}
}

func redact(u *url.URL) string {
	q := u.Query()
	if !q.Has("token") {
		return u.String()
	}
	q.Set("token", "***")
	r := *u
	r.RawQuery = q.Encode()
	return r.String()
}
