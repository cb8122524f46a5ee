package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-auth-service/pkg/helpers"
	"github.com/oksasatya/go-auth-service/pkg/response"
)

// CtxAccessTokenKey holds the raw access token found by RequireAccessToken.
const CtxAccessTokenKey = "access_token"

// RequireAccessToken takes the access token from the Authorization bearer
// header or, failing that, the access_token cookie. Validation is left to
// the handler so that token and user failures map to distinct errors.
func RequireAccessToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(helpers.AccessTokenCookie)
		}
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		c.Set(CtxAccessTokenKey, token)
		c.Next()
	}
}

// BearerToken returns the token of an "Authorization: Bearer <token>" value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
