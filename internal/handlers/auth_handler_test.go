package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/patrickacs/stocklio/internal/errors"
	"github.com/patrickacs/stocklio/internal/models"
)

type mockUserService struct {
	createUserFn     func(email, password, name string) (*models.User, error)
	getUserByEmailFn func(email string) (*models.User, error)
	getUserByIDFn    func(id uint) (*models.User, error)
	verifyPasswordFn func(user *models.User, password string) bool
	deleteUserFn     func(id uint) error
}

func (m *mockUserService) CreateUser(email, password, name string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(email, password, name)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return true
}

func (m *mockUserService) DeleteUser(id uint) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(id)
	}
	return nil
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.GET("/profile", injectUserID(1), handler.GetProfile)
	r.DELETE("/profile", injectUserID(1), handler.DeleteAccount)
	return r
}

func TestRegister(t *testing.T) {
	svc := &mockUserService{
		createUserFn: func(email, password, name string) (*models.User, error) {
			return &models.User{Base: models.Base{ID: 1}, Email: "new@example.com", Name: name}, nil
		},
	}
	r := setupAuthRouter(NewAuthHandler(svc))

	rec := doRequest(r, http.MethodPost, "/auth/register",
		`{"email":"new@example.com","password":"password123","name":"New User"}`)

	data := assertSuccess(t, rec, http.StatusCreated)
	if data["token"] == nil || data["token"] == "" {
		t.Error("expected a token in the response")
	}
	user, _ := data["user"].(map[string]interface{})
	if user["email"] != "new@example.com" {
		t.Errorf("unexpected user payload: %v", user)
	}
}

func TestRegisterInvalidPayload(t *testing.T) {
	r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"password123"}`},
		{"invalid email", `{"email":"not-an-email","password":"password123"}`},
		{"short password", `{"email":"a@b.com","password":"short"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(r, http.MethodPost, "/auth/register", tt.body)
			assertFailure(t, rec, http.StatusBadRequest, "INVALID_INPUT")
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := &mockUserService{
		createUserFn: func(email, password, name string) (*models.User, error) {
			return nil, apperrors.ErrDuplicateEmail
		},
	}
	r := setupAuthRouter(NewAuthHandler(svc))

	rec := doRequest(r, http.MethodPost, "/auth/register",
		`{"email":"dup@example.com","password":"password123"}`)
	assertFailure(t, rec, http.StatusConflict, "DUPLICATE_EMAIL")
}

func TestLogin(t *testing.T) {
	svc := &mockUserService{
		getUserByEmailFn: func(email string) (*models.User, error) {
			return &models.User{Base: models.Base{ID: 7}, Email: email}, nil
		},
	}
	r := setupAuthRouter(NewAuthHandler(svc))

	rec := doRequest(r, http.MethodPost, "/auth/login",
		`{"email":"user@example.com","password":"password123"}`)

	data := assertSuccess(t, rec, http.StatusOK)
	if data["token"] == nil {
		t.Error("expected a token in the response")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := &mockUserService{
		verifyPasswordFn: func(_ *models.User, _ string) bool { return false },
	}
	r := setupAuthRouter(NewAuthHandler(svc))

	rec := doRequest(r, http.MethodPost, "/auth/login",
		`{"email":"user@example.com","password":"wrong-password"}`)
	assertFailure(t, rec, http.StatusUnauthorized, "INVALID_CREDENTIALS")
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := &mockUserService{
		getUserByEmailFn: func(email string) (*models.User, error) {
			return nil, apperrors.ErrUserNotFound
		},
	}
	r := setupAuthRouter(NewAuthHandler(svc))

	// Unknown email must not be distinguishable from a wrong password.
	rec := doRequest(r, http.MethodPost, "/auth/login",
		`{"email":"ghost@example.com","password":"password123"}`)
	assertFailure(t, rec, http.StatusUnauthorized, "INVALID_CREDENTIALS")
}

func TestGetProfile(t *testing.T) {
	svc := &mockUserService{
		getUserByIDFn: func(id uint) (*models.User, error) {
			return &models.User{Base: models.Base{ID: id}, Email: "me@example.com", Name: "Me"}, nil
		},
	}
	r := setupAuthRouter(NewAuthHandler(svc))

	rec := doRequest(r, http.MethodGet, "/profile", "")
	data := assertSuccess(t, rec, http.StatusOK)
	user, _ := data["user"].(map[string]interface{})
	if user["email"] != "me@example.com" {
		t.Errorf("unexpected profile payload: %v", user)
	}
}

func TestDeleteAccount(t *testing.T) {
	var deleted uint
	svc := &mockUserService{
		deleteUserFn: func(id uint) error {
			deleted = id
			return nil
		},
	}
	r := setupAuthRouter(NewAuthHandler(svc))

	rec := doRequest(r, http.MethodDelete, "/profile", "")
	assertSuccess(t, rec, http.StatusOK)
	if deleted != 1 {
		t.Errorf("expected user 1 deleted, got %d", deleted)
	}
}
