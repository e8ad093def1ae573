package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel/config"
	"hotel/infras/jwt"
	jwtMocks "hotel/infras/jwt/mocks"
	"hotel/infras/otel/mocks"
	"hotel/permissions"
	"hotel/shared/constant"
	"hotel/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const table = `{
  "endpoints": [
    {"path": "/v1/rooms/available", "method": "GET", "skip": true},
    {"path": "/v1/rooms", "method": "POST", "permissions": ["admin"]},
    {"path": "/v1/bookings/{id}", "method": "GET", "permissions": ["user", "admin"]}
  ]
}`

func newRouter(t *testing.T, mockJWT *jwtMocks.MockJWT, cfg *config.Config) chi.Router {
	t.Helper()

	data, err := permissions.Parse([]byte(table))
	require.NoError(t, err)

	authRole := middleware.NewAuthRoleMiddleware(mockJWT, mocks.NewOtel(), data, cfg)

	echo := func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		user, _ := r.Context().Value(constant.ContextKeyUserID).(string)

		_ = json.NewEncoder(w).Encode(map[string]string{"role": role, "user": user})
	}

	router := chi.NewRouter()
	router.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)

	router.Route("/v1", func(r chi.Router) {
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/available", echo)
			r.Post("/", echo)
		})
		r.Get("/bookings/{id}", echo)
	})

	return router
}

func serve(router chi.Router, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func bearer(token string) map[string]string {
	return map[string]string{constant.RequestHeaderAuthorization: "Bearer " + token}
}

func TestAuth_PublicRouteSkipsToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newRouter(t, jwtMocks.NewMockJWT(ctrl), &config.Config{})

	rec := serve(router, http.MethodGet, "/v1/rooms/available", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newRouter(t, jwtMocks.NewMockJWT(ctrl), &config.Config{})

	rec := serve(router, http.MethodGet, "/v1/bookings/b-1", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing authorization header")
}

func TestAuth_ExpiredToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockJWT.EXPECT().ValidateToken(gomock.Any(), "stale", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)

	router := newRouter(t, mockJWT, &config.Config{})

	rec := serve(router, http.MethodGet, "/v1/bookings/b-1", bearer("stale"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token has expired")
}

func TestRBAC(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		role     string
		wantCode int
	}{
		{"customer reads own booking", http.MethodGet, "/v1/bookings/b-1", constant.RoleUser, http.StatusOK},
		{"admin reads booking", http.MethodGet, "/v1/bookings/b-1", constant.RoleAdmin, http.StatusOK},
		{"customer cannot create rooms", http.MethodPost, "/v1/rooms", constant.RoleUser, http.StatusForbidden},
		{"admin creates rooms", http.MethodPost, "/v1/rooms", constant.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockJWT := jwtMocks.NewMockJWT(ctrl)
			mockJWT.EXPECT().ValidateToken(gomock.Any(), "token", jwt.AccessToken).
				Return(&jwt.Claims{UserID: "u-1", Email: "u@example.com", Role: tt.role, TokenID: "t-1"}, nil)

			router := newRouter(t, mockJWT, &config.Config{})

			rec := serve(router, tt.method, tt.path, bearer("token"))

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode == http.StatusOK {
				assert.JSONEq(t, `{"role":"`+tt.role+`","user":"u-1"}`, rec.Body.String())
			}
		})
	}
}

func TestAPIKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	t.Run("valid key bypasses token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router := newRouter(t, jwtMocks.NewMockJWT(ctrl), cfg)

		rec := serve(router, http.MethodPost, "/v1/rooms", map[string]string{constant.RequestHeaderAPIKey: "internal-key"})

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router := newRouter(t, jwtMocks.NewMockJWT(ctrl), cfg)

		rec := serve(router, http.MethodPost, "/v1/rooms", map[string]string{constant.RequestHeaderAPIKey: "nope"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
