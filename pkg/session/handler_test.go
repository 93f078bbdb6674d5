package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"assetdeck/pkg/response"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) SignIn(ctx context.Context, email, password string) (SignedIn, error) {
	args := m.Called(ctx, email, password)
	out, _ := args.Get(0).(SignedIn)
	return out, args.Error(1)
}

func (m *mockProvider) SignUp(ctx context.Context, email, password string) (SignedIn, error) {
	args := m.Called(ctx, email, password)
	out, _ := args.Get(0).(SignedIn)
	return out, args.Error(1)
}

func (m *mockProvider) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockProvider) Current(ctx context.Context) (Session, error) {
	args := m.Called(ctx)
	sess, _ := args.Get(0).(Session)
	return sess, args.Error(1)
}

func (m *mockProvider) Profile(ctx context.Context) (Profile, error) {
	args := m.Called(ctx)
	prof, _ := args.Get(0).(Profile)
	return prof, args.Error(1)
}

func (m *mockProvider) UpdateProfile(ctx context.Context, update ProfileUpdate) (Profile, error) {
	args := m.Called(ctx, update)
	prof, _ := args.Get(0).(Profile)
	return prof, args.Error(1)
}

func setupSessionRouter(provider Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewSessionHandler(provider).RegisterRoutes(r)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSessionHandler_SignIn_Success(t *testing.T) {
	p := new(mockProvider)
	r := setupSessionRouter(p)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := SignedIn{
		Session: Session{AccountID: "acc-1", Email: "a@example.com", CreatedAt: now},
		Profile: Profile{ID: "acc-1", Email: "a@example.com", StructureName: DefaultStructureName},
	}
	p.On("SignIn", mock.Anything, "a@example.com", "pw").Return(out, nil)

	req := httptest.NewRequest(http.MethodPost, "/session/sign-in", strings.NewReader(`{"email":"a@example.com","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.True(t, resp.Success)
	require.Equal(t, "signed in", resp.Message)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	sess, ok := data["session"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "acc-1", sess["id"])
	p.AssertExpectations(t)
}

func TestSessionHandler_SignIn_BadPayload(t *testing.T) {
	p := new(mockProvider)
	r := setupSessionRouter(p)

	req := httptest.NewRequest(http.MethodPost, "/session/sign-in", strings.NewReader(`{"email":"a@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	p.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionHandler_SignUp_InvalidEmail(t *testing.T) {
	p := new(mockProvider)
	r := setupSessionRouter(p)

	p.On("SignUp", mock.Anything, "nope", "pw").Return(SignedIn{}, ErrInvalidEmail)

	req := httptest.NewRequest(http.MethodPost, "/session/sign-up", strings.NewReader(`{"email":"nope","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, ErrInvalidEmail.Error(), decode(t, w).Message)
}

func TestSessionHandler_Current_Unauthenticated(t *testing.T) {
	p := new(mockProvider)
	r := setupSessionRouter(p)

	p.On("Current", mock.Anything).Return(Session{}, ErrNotAuthenticated)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/session", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.False(t, decode(t, w).Success)
}

func TestSessionHandler_SignOut(t *testing.T) {
	p := new(mockProvider)
	r := setupSessionRouter(p)

	p.On("SignOut", mock.Anything).Return(nil).Once()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/session", nil))
	require.Equal(t, http.StatusOK, w.Code)

	p.On("SignOut", mock.Anything).Return(errors.New("store down")).Once()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/session", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSessionHandler_UpdateProfile(t *testing.T) {
	p := new(mockProvider)
	r := setupSessionRouter(p)

	name := "Agency"
	p.On("UpdateProfile", mock.Anything, ProfileUpdate{StructureName: &name}).
		Return(Profile{ID: "acc-1", StructureName: "Agency"}, nil)

	req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(`{"structure_name":"Agency"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data, ok := decode(t, w).Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Agency", data["structure_name"])
}

func TestSessionHandler_UpdateProfile_EmptyStructure(t *testing.T) {
	p := new(mockProvider)
	r := setupSessionRouter(p)

	p.On("UpdateProfile", mock.Anything, mock.Anything).Return(Profile{}, ErrEmptyStructure)

	req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(`{"structure_name":" "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
