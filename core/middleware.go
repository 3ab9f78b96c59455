package core

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Authorize is the single role guard composed in front of protected routes.
// It validates the bearer token and, when roles is non-empty, requires the
// session's role snapshot to be one of them. The role set is flat: admin is
// admitted only where it is listed.
func Authorize(auth *AuthService, roles ...string) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing or malformed bearer token")
			c.Abort()
			return
		}

		sess, err := auth.Validate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, ErrSessionExpired):
				respondError(c, http.StatusUnauthorized, "SESSION_EXPIRED", "session expired, please log in again")
			case errors.Is(err, ErrSessionNotFound):
				respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session token")
			default:
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "session lookup failed")
			}
			c.Abort()
			return
		}

		if len(allowed) > 0 {
			if _, ok := allowed[sess.Role]; !ok {
				respondError(c, http.StatusForbidden, "FORBIDDEN", "insufficient role")
				c.Abort()
				return
			}
		}

		c.Set(principalKey, sess)
		c.Next()
	}
}

// principalFrom returns the session stored by Authorize. Handlers behind the
// guard can rely on it being present.
func principalFrom(c *gin.Context) Session {
	v, _ := c.Get(principalKey)
	sess, _ := v.(Session)
	return sess
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// OriginMiddleware validates Origin/Referer against the allowed list and sets
// CORS headers so the static front end can call the API cross-origin with a
// bearer token. No cookies are involved, so there is no CSRF layer.
func OriginMiddleware(cfg Config) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	for _, o := range cfg.AllowedOrigins {
		allowed[strings.ToLower(o)] = struct{}{}
	}

	isAllowed := func(origin string) bool {
		if origin == "" {
			// Same-origin navigation (no Origin header) is allowed.
			return true
		}
		if len(allowed) == 0 {
			return false
		}
		_, ok := allowed[strings.ToLower(origin)]
		return ok
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		referer := c.GetHeader("Referer")
		if origin == "" && referer != "" {
			if u, err := url.Parse(referer); err == nil {
				origin = u.Scheme + "://" + u.Host
			}
		}

		// Preflight handling
		if c.Request.Method == http.MethodOptions && origin != "" {
			if !isAllowed(origin) {
				respondError(c, http.StatusForbidden, "FORBIDDEN", "origin not allowed")
				c.Abort()
				return
			}
			setCORSHeaders(c, origin)
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		if !isAllowed(origin) {
			respondError(c, http.StatusForbidden, "FORBIDDEN", "origin not allowed")
			c.Abort()
			return
		}
		if origin != "" {
			setCORSHeaders(c, origin)
		}
		c.Next()
	}
}

func setCORSHeaders(c *gin.Context, origin string) {
	c.Header("Access-Control-Allow-Origin", origin)
	c.Header("Vary", "Origin")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
}
