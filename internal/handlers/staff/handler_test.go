package staff_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel/infras/otel/mocks"
	staffMocks "hotel/internal/domains/staff/mocks"
	"hotel/internal/handlers/staff"
	"hotel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) (http.Handler, *staffMocks.MockStaffService) {
	t.Helper()

	svc := staffMocks.NewMockStaffService(gomock.NewController(t))
	handler := staff.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func TestHandler_MalformedStaffIDIsNotFound(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			router, _ := newRouter(t)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(method, "/staff/not-a-uuid", nil))

			var body response.Error
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			assert.Equal(t, http.StatusNotFound, rec.Code)
			require.NotNil(t, body.Error)
			assert.Equal(t, "staff not found", *body.Error)
		})
	}
}

func TestHandler_DeleteStaffPassesValidID(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Delete(gomock.Any(), "9d4a6b1c-2e5f-4a7d-8c3b-1f0e9d2c4b03").Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/staff/9d4a6b1c-2e5f-4a7d-8c3b-1f0e9d2c4b03", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
