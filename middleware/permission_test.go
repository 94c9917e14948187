package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, recorder
}

func TestCheckLoginMiddlewareRejectsAnonymous(t *testing.T) {
	c, recorder := newTestContext()

	CheckLoginMiddleware()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "UNAUTHORIZED")
}

func TestCheckLoginMiddlewareAllowsLoggedIn(t *testing.T) {
	c, _ := newTestContext()
	c.Set("UserID", uint(1))

	CheckLoginMiddleware()(c)

	assert.False(t, c.IsAborted())
}

func TestCheckAdminPermissionRejectsUserRole(t *testing.T) {
	c, recorder := newTestContext()
	c.Set("UserID", uint(1))
	c.Set("Role", "user")

	CheckAdminPermissionMiddleware()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "ADMIN_ONLY")
}

func TestCheckAdminPermissionAllowsAdmin(t *testing.T) {
	c, _ := newTestContext()
	c.Set("UserID", uint(1))
	c.Set("Role", "admin")

	CheckAdminPermissionMiddleware()(c)

	assert.False(t, c.IsAborted())
}

func TestCheckAdminPermissionMissingRole(t *testing.T) {
	c, recorder := newTestContext()

	CheckAdminPermissionMiddleware()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
