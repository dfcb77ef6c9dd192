package middlewares

import (
	"net/http"
	"strings"

	"github.com/Kariqs/bookbuy-api/auth"
	"github.com/Kariqs/bookbuy-api/common"
	"github.com/Kariqs/bookbuy-api/models"
	"github.com/gin-gonic/gin"
)

const (
	userKey    = "user"
	sessionKey = "session"
)

func abortWithError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	kind := common.KindOf(err)
	if kind == common.KindUnauthenticated {
		ctx.Header("WWW-Authenticate", "Bearer")
	}
	message := common.MessageOf(err)
	if kind == common.KindInternal {
		message = http.StatusText(http.StatusInternalServerError)
	}
	ctx.AbortWithStatusJSON(kind.HTTPStatus(), gin.H{"status": "error", "message": message})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth resolves the bearer token through gate and stores the user and
// session in the context.
func RequireAuth(gate *auth.Gate) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx.GetHeader("Authorization"))
		if !ok {
			abortWithError(ctx, common.Unauthenticated("Not authenticated"))
			return
		}

		session, err := gate.Authenticate(ctx.Request.Context(), token)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.Set(userKey, session.User)
		ctx.Set(sessionKey, session)
		ctx.Next()
	}
}

func CurrentUser(ctx *gin.Context) (*models.User, bool) {
	value, exists := ctx.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func CurrentSession(ctx *gin.Context) (*auth.Session, bool) {
	value, exists := ctx.Get(sessionKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*auth.Session)
	return session, ok
}
