package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/middlewares"
	"user-accounts/internal/models"
)

func TestUserProfileHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockProfileGetter(ctrl)

	requester := &models.AuthUser{UserID: "u2", Name: "Jane"}

	tests := []struct {
		name         string
		authUser     *models.AuthUser
		mockSetup    func()
		expectedCode int
		expectedMsg  string
	}{
		{
			name:     "success",
			authUser: requester,
			mockSetup: func() {
				mockSvc.EXPECT().
					GetProfile(gomock.Any(), requester, "u1").
					Return(&models.User{UserID: "u1", Name: "John", IsPublic: true}, nil)
			},
			expectedCode: http.StatusOK,
			expectedMsg:  "User profile fetched successfully",
		},
		{
			name:         "unauthenticated",
			authUser:     nil,
			mockSetup:    func() {},
			expectedCode: http.StatusUnauthorized,
			expectedMsg:  "Authentication required",
		},
		{
			name:     "private profile forbidden",
			authUser: requester,
			mockSetup: func() {
				mockSvc.EXPECT().
					GetProfile(gomock.Any(), requester, "u1").
					Return(nil, apperrors.Forbidden("Access forbidden"))
			},
			expectedCode: http.StatusForbidden,
			expectedMsg:  "Access forbidden",
		},
		{
			name:     "not found",
			authUser: requester,
			mockSetup: func() {
				mockSvc.EXPECT().
					GetProfile(gomock.Any(), requester, "u1").
					Return(nil, apperrors.NotFound("User not found"))
			},
			expectedCode: http.StatusNotFound,
			expectedMsg:  "User not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := httptest.NewRequest(http.MethodGet, "/users/userProfile/u1", nil)
			req = withChiParam(req, "userId", "u1")
			if tt.authUser != nil {
				req = req.WithContext(middlewares.SetAuthUserToContext(req.Context(), tt.authUser))
			}
			w := httptest.NewRecorder()

			NewUserProfileHandler(mockSvc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			if tt.expectedCode == http.StatusOK {
				var resp models.Response
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedMsg, resp.Message)

				data, ok := resp.Data.(map[string]interface{})
				require.True(t, ok)
				assert.Equal(t, "u1", data["id"])
			} else {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedMsg, resp.Message)
			}
		})
	}
}
