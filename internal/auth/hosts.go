package auth

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AllowedHostsMiddleware rejects requests whose Host header is not in the
// configured list. With an empty list, debug mode allows everything and
// production rejects everything, so a deployment cannot silently serve an
// unexpected hostname.
func AllowedHostsMiddleware(allowedHosts []string, debug bool) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedHosts))
	wildcard := false
	for _, h := range allowedHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "*" {
			wildcard = true
			continue
		}
		allowed[h] = true
	}

	return func(c *gin.Context) {
		if wildcard || (debug && len(allowed) == 0) {
			c.Next()
			return
		}

		host := requestHost(c.Request)
		if allowed[host] {
			c.Next()
			return
		}

		// Accept a ".example.com" entry for any subdomain, matching the
		// usual framework convention.
		for pattern := range allowed {
			if strings.HasPrefix(pattern, ".") && (host == pattern[1:] || strings.HasSuffix(host, pattern)) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "invalid Host header",
		})
	}
}

// requestHost returns the lowercased request hostname without the port.
func requestHost(r *http.Request) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(host)
}
