package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/collabhub/internal/app/features/auth"
	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	sysauth "github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/collabhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*auth.Handler, *userstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	tokens, err := sysauth.NewManager(strings.Repeat("s", 32), time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	return auth.NewHandler(users, tokens, zap.NewNop()), users
}

func register(t *testing.T, h *auth.Handler, name, email, password string) {
	t.Helper()
	body := `{"name":"` + name + `","email":"` + email + `","password":"` + password + `"}`
	r := httptest.NewRequest("POST", "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleRegister(rec, r)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status: got %d, body %s", rec.Code, rec.Body.String())
	}
}

func login(t *testing.T, h *auth.Handler, email, password string) int {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	r := httptest.NewRequest("POST", "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, r)
	return rec.Code
}

func TestChangePassword(t *testing.T) {
	h, users := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	register(t, h, "Ada", "ada@example.com", "first-password")
	u, err := users.GetByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("load registered user: %v", err)
	}

	change := func(current, next string) *httptest.ResponseRecorder {
		body := `{"current_password":"` + current + `","new_password":"` + next + `"}`
		r := httptest.NewRequest("PUT", "/", strings.NewReader(body))
		r = testutil.SignedInRequest(r, u)
		rec := httptest.NewRecorder()
		h.HandleChangePassword(rec, r)
		return rec
	}

	// The wrong current password is refused and changes nothing.
	if rec := change("not-the-password", "second-password"); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong current password: got %d want 401, body %s", rec.Code, rec.Body.String())
	}
	if code := login(t, h, "ada@example.com", "first-password"); code != http.StatusOK {
		t.Errorf("original password must still work, login got %d", code)
	}

	// A short replacement is rejected by validation.
	if rec := change("first-password", "tiny"); rec.Code != http.StatusBadRequest {
		t.Errorf("short new password: got %d want 400", rec.Code)
	}

	// The real rotation.
	rec := change("first-password", "second-password")
	if rec.Code != http.StatusOK {
		t.Fatalf("change password: got %d, body %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode change response: %v", err)
	}
	if !env.Success || env.Message != "password updated" {
		t.Errorf("change response: %+v", env)
	}

	if code := login(t, h, "ada@example.com", "second-password"); code != http.StatusOK {
		t.Errorf("new password login: got %d want 200", code)
	}
	if code := login(t, h, "ada@example.com", "first-password"); code != http.StatusUnauthorized {
		t.Errorf("old password login: got %d want 401", code)
	}
}
