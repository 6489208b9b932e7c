package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/middlewares"
	"user-accounts/internal/models"
)

// withChiParam injects a chi URL parameter into the request context.
func withChiParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func boolPtr(b bool) *bool { return &b }

func TestProfileVisibilityHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockVisibilityUpdater(ctrl)

	owner := &models.AuthUser{UserID: "u1", Name: "John"}

	tests := []struct {
		name         string
		authUser     *models.AuthUser
		inputBody    interface{}
		mockSetup    func()
		expectedCode int
		expectedMsg  string
	}{
		{
			name:      "success",
			authUser:  owner,
			inputBody: VisibilityRequest{IsPublic: boolPtr(false)},
			mockSetup: func() {
				mockSvc.EXPECT().
					UpdateVisibility(gomock.Any(), owner, "u1", false).
					Return(&models.User{UserID: "u1", IsPublic: false}, nil)
			},
			expectedCode: http.StatusOK,
			expectedMsg:  "Profile visibility updated successfully",
		},
		{
			name:         "missing isPublic",
			authUser:     owner,
			inputBody:    map[string]interface{}{},
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "isPublic field is required",
		},
		{
			name:         "unauthenticated",
			authUser:     nil,
			inputBody:    VisibilityRequest{IsPublic: boolPtr(true)},
			mockSetup:    func() {},
			expectedCode: http.StatusUnauthorized,
			expectedMsg:  "Authentication required",
		},
		{
			name:      "stranger forbidden",
			authUser:  &models.AuthUser{UserID: "other"},
			inputBody: VisibilityRequest{IsPublic: boolPtr(true)},
			mockSetup: func() {
				mockSvc.EXPECT().
					UpdateVisibility(gomock.Any(), gomock.Any(), "u1", true).
					Return(nil, apperrors.Forbidden("Access forbidden"))
			},
			expectedCode: http.StatusForbidden,
			expectedMsg:  "Access forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			body, _ := json.Marshal(tt.inputBody)
			req := httptest.NewRequest(http.MethodPut, "/users/profile/u1", bytes.NewReader(body))
			req = withChiParam(req, "userId", "u1")
			if tt.authUser != nil {
				req = req.WithContext(middlewares.SetAuthUserToContext(req.Context(), tt.authUser))
			}
			w := httptest.NewRecorder()

			NewProfileVisibilityHandler(mockSvc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			if tt.expectedCode == http.StatusOK {
				var resp models.Response
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedMsg, resp.Message)
			} else {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedMsg, resp.Message)
			}
		})
	}
}
