package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/davidromeroc/tienda-backend/api/responses"
	pkgerrors "github.com/davidromeroc/tienda-backend/pkg/errors"
	"github.com/davidromeroc/tienda-backend/pkg/logger"
)

// throttleCounter is the slice of the Redis client the throttle needs:
// a fixed-window counter that expires on its own.
type throttleCounter interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// ThrottlePolicy caps login and registration attempts per client IP
// and per target email within a fixed window. Either limit can be
// disabled with a zero value.
type ThrottlePolicy struct {
	surface    string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewThrottlePolicy builds a policy for one auth surface ("login",
// "register").
func NewThrottlePolicy(surface string, window time.Duration, ipLimit, emailLimit int) ThrottlePolicy {
	name := strings.ToLower(strings.TrimSpace(surface))
	if name == "" {
		name = "auth"
	}
	return ThrottlePolicy{
		surface:    name,
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p ThrottlePolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

func (p ThrottlePolicy) counterKey(scope, value string) string {
	return fmt.Sprintf("throttle:%s:%s:%s", p.surface, scope, value)
}

// Throttle guards an auth endpoint with the given policy. The IP
// counter is checked first so address floods never touch the body;
// the email counter then stops targeted credential stuffing even when
// it rotates through addresses. Emails are hashed before they become
// Redis keys so the counter store never holds one in clear.
func Throttle(policy ThrottlePolicy, counter throttleCounter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || counter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			if policy.ipLimit > 0 && ip != "" {
				count, err := counter.IncrWithTTL(ctx, policy.counterKey("ip", ip), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "throttle counter"))
					return
				}
				if count > int64(policy.ipLimit) {
					blockThrottled(ctx, logg, w, policy, "ip", ip, count, policy.ipLimit)
					return
				}
			}

			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := emailFromBody(body); email != "" {
					hash := hashEmail(email)
					count, err := counter.IncrWithTTL(ctx, policy.counterKey("email", hash), policy.window)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "throttle counter"))
						return
					}
					if count > int64(policy.emailLimit) {
						blockThrottled(ctx, logg, w, policy, "email", hash, count, policy.emailLimit)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func blockThrottled(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy ThrottlePolicy, scope, value string, count int64, limit int) {
	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"surface":        policy.surface,
			"scope":          scope,
			scope:            value,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		})
		logg.Warn(ctx, "auth.throttle.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, retry later"))
}

// clientIP prefers proxy headers over the socket address; the API sits
// behind a load balancer in every deployed environment.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for _, part := range strings.Split(forwarded, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func emailFromBody(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

func hashEmail(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
