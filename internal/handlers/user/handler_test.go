package user_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel/infras/otel/mocks"
	userMocks "hotel/internal/domains/user/mocks"
	"hotel/internal/handlers/user"
	"hotel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) (http.Handler, *userMocks.MockUserService) {
	t.Helper()

	svc := userMocks.NewMockUserService(gomock.NewController(t))
	handler := user.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func TestHandler_MalformedUserIDIsNotFound(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			router, _ := newRouter(t)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(method, "/users/not-a-uuid", nil))

			var body response.Error
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			assert.Equal(t, http.StatusNotFound, rec.Code)
			require.NotNil(t, body.Error)
			assert.Equal(t, "user not found", *body.Error)
		})
	}
}

func TestHandler_DeleteUserPassesValidID(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Delete(gomock.Any(), "5e0f7c2a-1d3b-4a8e-b6f4-2c9d1e7a3b02").Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/5e0f7c2a-1d3b-4a8e-b6f4-2c9d1e7a3b02", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
