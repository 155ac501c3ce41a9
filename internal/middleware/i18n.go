// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/farmlink/market-backend/internal/i18n"

	"github.com/gin-gonic/gin"
)

// I18n resolves the request language from the lang query parameter or the
// Accept-Language header and stores it on the context.
func I18n(defaultLocale string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = parseAcceptLanguage(c.GetHeader("Accept-Language"))
		}
		if lang == "" || !i18n.IsSupported(lang) {
			lang = defaultLocale
		}
		c.Set("lang", lang)
		c.Next()
	}
}

// parseAcceptLanguage extracts the primary language of the first entry,
// ignoring quality weights.
func parseAcceptLanguage(header string) string {
	if header == "" {
		return ""
	}
	first := strings.Split(header, ",")[0]
	first = strings.TrimSpace(strings.Split(first, ";")[0])
	return strings.ToLower(strings.Split(first, "-")[0])
}
