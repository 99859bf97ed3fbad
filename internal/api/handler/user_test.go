package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khiandraj/Finance-Tracker/internal/pkg/response"
	"github.com/khiandraj/Finance-Tracker/internal/repository"
	"github.com/khiandraj/Finance-Tracker/internal/service"
	"github.com/khiandraj/Finance-Tracker/internal/testutil"
)

func setupUserHandler(t *testing.T) (*UserHandler, *testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	userService := service.NewUserService(userRepo)
	handler := NewUserHandler(userService)

	ctx := &testContext{
		DB: db,
	}

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return handler, ctx, cleanup
}

func TestUserHandler_GetProfile_Success(t *testing.T) {
	handler, ctx, cleanup := setupUserHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB, testutil.WithUsername("profileuser"))

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.GET("/profile", handler.GetProfile)

	w := performRequest(router, "GET", "/profile", nil)
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "profileuser", data["username"])
}

func TestUserHandler_GetProfile_Unauthorized(t *testing.T) {
	handler, _, cleanup := setupUserHandler(t)
	defer cleanup()

	router := gin.New()
	// No auth middleware
	router.GET("/profile", handler.GetProfile)

	w := performRequest(router, "GET", "/profile", nil)
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestUserHandler_GetProfile_UserMissing(t *testing.T) {
	handler, _, cleanup := setupUserHandler(t)
	defer cleanup()

	router := gin.New()
	router.Use(mockAuth(99999))
	router.GET("/profile", handler.GetProfile)

	w := performRequest(router, "GET", "/profile", nil)
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)
}
