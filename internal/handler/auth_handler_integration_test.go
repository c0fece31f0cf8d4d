package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/digitup/immo-api/internal/handler"
	"github.com/digitup/immo-api/internal/middleware"
	"github.com/digitup/immo-api/internal/repository"
	"github.com/digitup/immo-api/internal/service"
	"github.com/digitup/immo-api/internal/testutil"
	"github.com/digitup/immo-api/internal/tokens"
	"github.com/digitup/immo-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerIntegrationTestSuite struct {
	suite.Suite
	testDB    *testutil.TestDatabase
	testRedis *testutil.TestRedis
	router    *gin.Engine
}

func (s *AuthHandlerIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	require.NoError(s.T(), logger.Init(false))

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.testRedis = testutil.SetupTestRedis(s.T())

	userRepo := repository.NewUserRepository(s.testDB.DB)
	tokenStore := tokens.NewStore(s.testRedis.Client)
	authService := service.NewAuthService(userRepo, tokenStore, "test-secret-key", time.Hour)
	loginLimiter := middleware.NewLoginLimiter(s.testRedis.Client, 5, time.Minute)
	authHandler := handler.NewAuthHandler(authService, loginLimiter)

	s.router = gin.New()
	s.router.POST("/api/register", authHandler.Register)
	s.router.POST("/api/login", authHandler.Login)

	protected := s.router.Group("/api")
	protected.Use(middleware.AuthMiddleware("test-secret-key", tokenStore))
	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", authHandler.Me)
	protected.POST("/refresh", authHandler.Refresh)
}

func (s *AuthHandlerIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
	s.testRedis.Teardown(s.T())
}

func (s *AuthHandlerIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
	s.testRedis.Server.FlushAll()
}

func (s *AuthHandlerIntegrationTestSuite) postJSON(path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	bodyBytes, err := json.Marshal(body)
	require.NoError(s.T(), err)

	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *AuthHandlerIntegrationTestSuite) registerAgent(email string) string {
	w := s.postJSON("/api/register", map[string]string{
		"name":                  "Agent Immobilier",
		"email":                 email,
		"password":              "SecurePass123",
		"password_confirmation": "SecurePass123",
		"role":                  "agent",
	}, nil)
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	return data["access_token"].(string)
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterSuccess() {
	w := s.postJSON("/api/register", map[string]string{
		"name":                  "Ahmed Benali",
		"email":                 "Ahmed.Benali@Example.com",
		"password":              "SecurePass123",
		"password_confirmation": "SecurePass123",
		"role":                  "agent",
	}, nil)

	assert.Equal(s.T(), http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), true, resp["success"])
	assert.Equal(s.T(), "Account created successfully. Welcome!", resp["message"])

	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(s.T(), data["access_token"])
	assert.Equal(s.T(), "Bearer", data["token_type"])

	user := data["user"].(map[string]interface{})
	assert.Equal(s.T(), "Ahmed Benali", user["name"])
	// Emails are lowercased before storage
	assert.Equal(s.T(), "ahmed.benali@example.com", user["email"])
	assert.Equal(s.T(), "agent", user["role"])
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterDuplicateEmail() {
	s.registerAgent("agent@digitup.com")

	w := s.postJSON("/api/register", map[string]string{
		"name":                  "Another Agent",
		"email":                 "agent@digitup.com",
		"password":              "SecurePass123",
		"password_confirmation": "SecurePass123",
		"role":                  "agent",
	}, nil)

	assert.Equal(s.T(), http.StatusUnprocessableEntity, w.Code)

	var resp map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), false, resp["success"])
	errs := resp["errors"].(map[string]interface{})
	assert.Contains(s.T(), errs, "email")
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterWeakPassword() {
	w := s.postJSON("/api/register", map[string]string{
		"name":                  "Ahmed Benali",
		"email":                 "ahmed@example.com",
		"password":              "alllowercase1",
		"password_confirmation": "alllowercase1",
		"role":                  "agent",
	}, nil)

	assert.Equal(s.T(), http.StatusUnprocessableEntity, w.Code)

	var resp map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	errs := resp["errors"].(map[string]interface{})
	assert.Contains(s.T(), errs, "password")
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterConfirmationMismatch() {
	w := s.postJSON("/api/register", map[string]string{
		"name":                  "Ahmed Benali",
		"email":                 "ahmed@example.com",
		"password":              "SecurePass123",
		"password_confirmation": "OtherPass123",
		"role":                  "agent",
	}, nil)

	assert.Equal(s.T(), http.StatusUnprocessableEntity, w.Code)

	var resp map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	errs := resp["errors"].(map[string]interface{})
	assert.Contains(s.T(), errs, "password_confirmation")
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterInvalidRole() {
	w := s.postJSON("/api/register", map[string]string{
		"name":                  "Ahmed Benali",
		"email":                 "ahmed@example.com",
		"password":              "SecurePass123",
		"password_confirmation": "SecurePass123",
		"role":                  "superuser",
	}, nil)

	assert.Equal(s.T(), http.StatusUnprocessableEntity, w.Code)
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginSuccess() {
	s.registerAgent("agent@digitup.com")

	w := s.postJSON("/api/login", map[string]string{
		"email":    "agent@digitup.com",
		"password": "SecurePass123",
	}, nil)

	assert.Equal(s.T(), http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), true, resp["success"])
	assert.Equal(s.T(), "Login successful. Welcome back!", resp["message"])

	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(s.T(), data["access_token"])
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginInvalidCredentials() {
	s.registerAgent("agent@digitup.com")

	w := s.postJSON("/api/login", map[string]string{
		"email":    "agent@digitup.com",
		"password": "WrongPass123",
	}, nil)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)

	var resp map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), false, resp["success"])
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginUnknownUser() {
	w := s.postJSON("/api/login", map[string]string{
		"email":    "nobody@digitup.com",
		"password": "SecurePass123",
	}, nil)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginRateLimited() {
	s.registerAgent("agent@digitup.com")

	// Five failed attempts fill the window
	for i := 0; i < 5; i++ {
		w := s.postJSON("/api/login", map[string]string{
			"email":    "agent@digitup.com",
			"password": "WrongPass123",
		}, nil)
		require.Equal(s.T(), http.StatusUnauthorized, w.Code, "attempt %d", i+1)
	}

	// The sixth attempt is rejected even with the correct password
	w := s.postJSON("/api/login", map[string]string{
		"email":    "agent@digitup.com",
		"password": "SecurePass123",
	}, nil)
	assert.Equal(s.T(), http.StatusTooManyRequests, w.Code)

	var resp map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), false, resp["success"])
	retryAfter, ok := resp["retry_after"].(float64)
	require.True(s.T(), ok)
	assert.Greater(s.T(), retryAfter, float64(0))
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginSuccessClearsLimiter() {
	s.registerAgent("agent@digitup.com")

	// Four failures stay under the limit
	for i := 0; i < 4; i++ {
		w := s.postJSON("/api/login", map[string]string{
			"email":    "agent@digitup.com",
			"password": "WrongPass123",
		}, nil)
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	}

	// A success resets the counter
	w := s.postJSON("/api/login", map[string]string{
		"email":    "agent@digitup.com",
		"password": "SecurePass123",
	}, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)

	// Failing again starts from zero, not from four
	for i := 0; i < 5; i++ {
		w := s.postJSON("/api/login", map[string]string{
			"email":    "agent@digitup.com",
			"password": "WrongPass123",
		}, nil)
		assert.Equal(s.T(), http.StatusUnauthorized, w.Code, "attempt %d after reset", i+1)
	}
}

func (s *AuthHandlerIntegrationTestSuite) TestMe() {
	token := s.registerAgent("agent@digitup.com")

	req, _ := http.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(s.T(), "agent@digitup.com", data["email"])
	// Password hash never leaves the API
	assert.NotContains(s.T(), w.Body.String(), "password")
}

func (s *AuthHandlerIntegrationTestSuite) TestMeWithoutToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/me", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *AuthHandlerIntegrationTestSuite) TestLogoutRevokesToken() {
	token := s.registerAgent("agent@digitup.com")

	w := s.postJSON("/api/logout", nil, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(s.T(), http.StatusOK, w.Code)

	// The token no longer works
	req, _ := http.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(s.T(), http.StatusUnauthorized, rec.Code)
}

func (s *AuthHandlerIntegrationTestSuite) TestRefreshRotatesToken() {
	token := s.registerAgent("agent@digitup.com")

	w := s.postJSON("/api/refresh", nil, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(s.T(), http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	newToken := data["access_token"].(string)
	require.NotEmpty(s.T(), newToken)
	require.NotEqual(s.T(), token, newToken)

	// Old token is revoked, new token works
	req, _ := http.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(s.T(), http.StatusUnauthorized, rec.Code)

	req, _ = http.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+newToken)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(s.T(), http.StatusOK, rec.Code)
}

func (s *AuthHandlerIntegrationTestSuite) TestNewLoginRevokesPreviousToken() {
	first := s.registerAgent("agent@digitup.com")

	w := s.postJSON("/api/login", map[string]string{
		"email":    "agent@digitup.com",
		"password": "SecurePass123",
	}, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)

	req, _ := http.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+first)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(s.T(), http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerIntegrationTestSuite))
}
