package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venkateshdh/gotours-backend/api/middleware"
	"github.com/venkateshdh/gotours-backend/internal/users"
	"github.com/venkateshdh/gotours-backend/pkg/db/models"
	"github.com/venkateshdh/gotours-backend/pkg/enums"
)

type stubUsers struct {
	lastInput users.UpdateMeInput
	deleted   uuid.UUID
}

func (s *stubUsers) Me(_ context.Context, userID uuid.UUID) (*models.User, error) {
	return &models.User{ID: userID, Name: "Ada"}, nil
}

func (s *stubUsers) UpdateMe(_ context.Context, userID uuid.UUID, input users.UpdateMeInput) (*models.User, error) {
	s.lastInput = input
	return &models.User{ID: userID}, nil
}

func (s *stubUsers) DeactivateMe(_ context.Context, userID uuid.UUID) error {
	s.deleted = userID
	return nil
}

func authedRequest(req *http.Request, user *models.User) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), user))
}

func TestGetMe(t *testing.T) {
	handler := GetMe(&stubUsers{}, testLogger())

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/users/me", nil),
		&models.User{ID: uuid.New(), Role: enums.RoleUser})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Ada")
}

func TestUpdateMePassesProfileFields(t *testing.T) {
	svc := &stubUsers{}
	handler := UpdateMe(svc, testLogger())

	req := authedRequest(httptest.NewRequest(http.MethodPatch, "/users/updateMe",
		strings.NewReader(`{"name":"Grace","photo":"user-9.jpg"}`)),
		&models.User{ID: uuid.New(), Role: enums.RoleUser})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.lastInput.Name)
	assert.Equal(t, "Grace", *svc.lastInput.Name)
	require.NotNil(t, svc.lastInput.Photo)
	assert.Equal(t, "user-9.jpg", *svc.lastInput.Photo)
	assert.Nil(t, svc.lastInput.Email)
}

func TestUpdateMeRejectsPasswordFields(t *testing.T) {
	handler := UpdateMe(&stubUsers{}, testLogger())

	req := authedRequest(httptest.NewRequest(http.MethodPatch, "/users/updateMe",
		strings.NewReader(`{"password":"newpass123","passwordConfirm":"newpass123"}`)),
		&models.User{ID: uuid.New(), Role: enums.RoleUser})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "updateMyPassword")
}

func TestDeleteMe(t *testing.T) {
	svc := &stubUsers{}
	handler := DeleteMe(svc, testLogger())

	userID := uuid.New()
	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/users/deleteMe", nil),
		&models.User{ID: userID, Role: enums.RoleUser})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, userID, svc.deleted)
}

func TestSignupInstead(t *testing.T) {
	handler := SignupInstead(testLogger())

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "/signup")
}
