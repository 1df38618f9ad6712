package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	appctx "procura/internal/core/context"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// roleRouter mounts a guarded endpoint behind ErrorHandler the same way
// the v1 router does, injecting the given user into the request context.
func roleRouter(user *appctx.UserContext, required ...string) *gin.Engine {
	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(func(c *gin.Context) {
		if user != nil {
			c.Request = c.Request.WithContext(appctx.WithUser(c.Request.Context(), user))
		}
		c.Next()
	})
	router.DELETE("/guarded", RequireRole(required...), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	router := roleRouter(&appctx.UserContext{UserID: "u1", Roles: []string{"admin"}}, "admin")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/guarded", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequireRole_RejectsMissingRole(t *testing.T) {
	router := roleRouter(&appctx.UserContext{UserID: "u1", Roles: []string{"buyer"}}, "admin")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/guarded", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_RejectsAnonymous(t *testing.T) {
	router := roleRouter(nil, "admin")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/guarded", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
