package middleware

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	"hotel/transport/http/response"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"
	authRoutePrefix   = "/v1/auth/"

	bucketDefault = "default"
	bucketAuth    = "auth"
)

// RateLimit counts requests per client in fixed windows. Credential routes
// (login, register, refresh) get their own, smaller bucket so password
// guessing is throttled without starving normal browsing.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.config.App.RateLimiter.Enable {
				next.ServeHTTP(w, r)

				return
			}

			bucket, maxReqs := a.bucket(r)
			windowSecs := a.config.App.RateLimiter.WindowSeconds
			cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, bucket, clientIP(r), userAgent(r))

			var count int

			err := a.cache.Get(r.Context(), cacheKey, &count)

			switch {
			case err == nil:
				count++
			case errors.Is(err, cache.Nil):
				count = 1
			default:
				log.Warn().Err(err).Str("bucket", bucket).Msg("rate limiter cache unavailable, letting request through")

				next.ServeHTTP(w, r)

				return
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(maxReqs))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(windowSecs))

			if count > maxReqs {
				log.Warn().Str("bucket", bucket).Str("ip", clientIP(r)).Msg("rate limit exceeded")

				w.Header().Set(constant.RequestHeaderRateLimitRemaining, "0")
				w.Header().Set(constant.RequestHeaderRetryAfter, strconv.Itoa(windowSecs))
				response.WithRequestLimitExceeded(w)

				return
			}

			if err = a.cache.Save(r.Context(), cacheKey, count, windowSecs); err != nil {
				log.Warn().Err(err).Msg("failed to save rate limiter counter")
			}

			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(maxReqs-count))

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) bucket(r *http.Request) (string, int) {
	limits := a.config.App.RateLimiter

	if strings.HasPrefix(r.URL.Path, authRoutePrefix) && limits.AuthMaxRequests > 0 {
		return bucketAuth, limits.AuthMaxRequests
	}

	return bucketDefault, limits.MaxRequests
}

func userAgent(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != constant.Empty {
		return ua
	}

	return "unknown"
}

// clientIP reads RemoteAddr, which chi's RealIP has already replaced with the
// forwarded address when a proxy set one.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
