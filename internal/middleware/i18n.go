// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/campus-marketplace/internal/i18n"
)

// I18nMiddleware picks the first supported language of Accept-Language and
// falls back to defaultLang.
func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("lang", preferredLanguage(c.GetHeader("Accept-Language"), defaultLang))
		c.Next()
	}
}

// preferredLanguage handles headers like "en-GB,en;q=0.9,hi;q=0.8".
func preferredLanguage(header, defaultLang string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.Split(part, ";")[0])
		if tag == "" {
			continue
		}
		if i18n.IsSupported(tag) {
			return tag
		}
		base := strings.SplitN(strings.ReplaceAll(tag, "_", "-"), "-", 2)[0]
		if i18n.IsSupported(base) {
			return base
		}
	}
	return defaultLang
}
