package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"hotel/config"
	"hotel/infras/jwt"
	jwtMocks "hotel/infras/jwt/mocks"
	"hotel/infras/otel/mocks"
	adminMocks "hotel/internal/domains/admin/mocks"
	adminModel "hotel/internal/domains/admin/model"
	"hotel/internal/domains/auth/model/dto"
	"hotel/internal/domains/auth/service"
	userMocks "hotel/internal/domains/user/mocks"
	userModel "hotel/internal/domains/user/model"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/password"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	users  *userMocks.MockUser
	admins *adminMocks.MockAdmin
	jwt    *jwtMocks.MockJWT
	svc    service.Auth
}

func setup(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		users:  userMocks.NewMockUser(ctrl),
		admins: adminMocks.NewMockAdmin(ctrl),
		jwt:    jwtMocks.NewMockJWT(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.users, f.admins, &config.Config{}, mockCache, mocks.NewOtel(), f.jwt)

	return f
}

func hash(t *testing.T, plain string) string {
	t.Helper()

	hashed, err := password.Hash(plain)
	require.NoError(t, err)

	return hashed
}

func tokenPair() *jwt.TokenPair {
	return &jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token", TokenType: "Bearer", ExpiresIn: 900}
}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{FullName: "Jane Doe", Email: "Jane@Example.com", Phone: "08123", Password: "secret123"}

	t.Run("stores a bcrypt hash", func(t *testing.T) {
		f := setup(t)

		f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
				filterValue := filter.Filters[0].(gDto.Filter).Value
				assert.Equal(t, "jane@example.com", filterValue)

				return false, nil
			})
		f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user userModel.User) error {
				assert.NotEqual(t, req.Password, user.Password)
				assert.NoError(t, password.Verify(req.Password, user.Password))
				assert.Equal(t, constant.RoleUser, user.Level)

				return nil
			})

		res, err := f.svc.Register(context.Background(), req)

		require.NoError(t, err)
		assert.NotEmpty(t, res.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := setup(t)

		f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := f.svc.Register(context.Background(), req)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("duplicate email caught by unique index", func(t *testing.T) {
		f := setup(t)

		f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})

		_, err := f.svc.Register(context.Background(), req)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("storage error", func(t *testing.T) {
		f := setup(t)

		f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("connection refused"))

		_, err := f.svc.Register(context.Background(), req)

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	hashed := hash(t, "secret123")

	active := userModel.User{ID: "u-1", FullName: "Jane", Email: "jane@example.com", Password: hashed, Level: constant.RoleUser, Active: true}

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "success",
			req:  dto.LoginRequest{Email: "jane@example.com", Password: "secret123"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(active, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), "u-1", "jane@example.com", constant.RoleUser).Return(tokenPair(), nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, fields, userModel.FieldLastLogin)

						return nil
					})
			},
		},
		{
			name: "last login failure does not block login",
			req:  dto.LoginRequest{Email: "jane@example.com", Password: "secret123"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(active, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(tokenPair(), nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("timeout"))
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "jane@example.com", Password: "wrong-pass"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(active, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "deactivated account",
			req:  dto.LoginRequest{Email: "jane@example.com", Password: "secret123"},
			setupMock: func(f fixture) {
				inactive := active
				inactive.Active = false

				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactive, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "token generation error",
			req:  dto.LoginRequest{Email: "jane@example.com", Password: "secret123"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(active, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			tt.setupMock(f)

			res, err := f.svc.Login(context.Background(), tt.req)

			if tt.wantCode == 0 {
				require.NoError(t, err)
				assert.Equal(t, "access-token", res.AccessToken)
				assert.Equal(t, "u-1", res.User.ID)

				return
			}

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestAuthService_AdminLogin(t *testing.T) {
	admin := adminModel.Admin{ID: "a-1", Username: "manager", Name: "Hotel Manager", Password: hash(t, "admin123")}

	t.Run("issues an admin token", func(t *testing.T) {
		f := setup(t)

		f.admins.EXPECT().Get(gomock.Any(), gomock.Any()).Return(admin, nil)
		f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), "a-1", "manager", constant.RoleAdmin).Return(tokenPair(), nil)
		f.admins.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.AdminLogin(context.Background(), dto.AdminLoginRequest{Username: "manager", Password: "admin123"})

		require.NoError(t, err)
		assert.Equal(t, "Hotel Manager", res.Admin.Name)
		assert.Equal(t, "refresh-token", res.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := setup(t)

		f.admins.EXPECT().Get(gomock.Any(), gomock.Any()).Return(admin, nil)

		_, err := f.svc.AdminLogin(context.Background(), dto.AdminLoginRequest{Username: "manager", Password: "nope"})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("unknown username", func(t *testing.T) {
		f := setup(t)

		f.admins.EXPECT().Get(gomock.Any(), gomock.Any()).Return(adminModel.Admin{}, nil)

		_, err := f.svc.AdminLogin(context.Background(), dto.AdminLoginRequest{Username: "ghost", Password: "admin123"})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setup(t)

		f.jwt.EXPECT().RefreshTokens(gomock.Any(), "refresh-token").Return(tokenPair(), nil)

		res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh-token"})

		require.NoError(t, err)
		assert.Equal(t, "access-token", res.AccessToken)
	})

	t.Run("invalid token", func(t *testing.T) {
		f := setup(t)

		f.jwt.EXPECT().RefreshTokens(gomock.Any(), gomock.Any()).Return(nil, jwt.ErrInvalidToken)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "garbage"})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "u-1")
	current := userModel.User{ID: "u-1", Password: hash(t, "secret123")}

	t.Run("success", func(t *testing.T) {
		f := setup(t)

		f.users.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(current, nil)
		f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				hashed, ok := fields[userModel.FieldPassword].(string)
				require.True(t, ok)
				assert.NoError(t, password.Verify("newsecret1", hashed))
				assert.Equal(t, "u-1", fields[constant.FieldModifiedBy])

				return nil
			})

		err := f.svc.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "newsecret1"})

		assert.NoError(t, err)
	})

	t.Run("wrong current password", func(t *testing.T) {
		f := setup(t)

		f.users.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(current, nil)

		err := f.svc.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "newsecret1"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("user gone", func(t *testing.T) {
		f := setup(t)

		f.users.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		err := f.svc.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "newsecret1"})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("anonymous", func(t *testing.T) {
		f := setup(t)

		err := f.svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{CurrentPassword: "a", NewPassword: "newsecret1"})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}
