package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// identityEcho is a terminal handler that records whether an identity was
// bound to the request context.
type identityEcho struct {
	called bool
	userID int
	bound  bool
}

func (e *identityEcho) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.called = true
		e.userID, e.bound = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	cfg := testAuthConfig("middleware-secret")

	t.Run("rejects a missing Authorization header", func(t *testing.T) {
		echo := &identityEcho{}
		response := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)

		RequireAuth(cfg)(echo.handler()).ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusUnauthorized)
		if echo.called {
			t.Error("handler must not run without a token")
		}
	})

	t.Run("rejects a non-bearer scheme", func(t *testing.T) {
		echo := &identityEcho{}
		response := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		RequireAuth(cfg)(echo.handler()).ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusUnauthorized)
	})

	t.Run("rejects an invalid token", func(t *testing.T) {
		echo := &identityEcho{}
		response := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer garbage")

		RequireAuth(cfg)(echo.handler()).ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusUnauthorized)
		if echo.called {
			t.Error("handler must not run with an invalid token")
		}
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		token, err := IssueToken(testAuthConfig("some-other-secret"), 9)
		if err != nil {
			t.Fatalf("IssueToken failed: %v", err)
		}

		echo := &identityEcho{}
		response := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer "+token)

		RequireAuth(cfg)(echo.handler()).ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusUnauthorized)
	})

	t.Run("binds the identity for a valid token", func(t *testing.T) {
		token, err := IssueToken(cfg, 17)
		if err != nil {
			t.Fatalf("IssueToken failed: %v", err)
		}

		echo := &identityEcho{}
		response := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer "+token)

		RequireAuth(cfg)(echo.handler()).ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusOK)
		if !echo.bound {
			t.Fatal("expected an identity in the request context")
		}
		if echo.userID != 17 {
			t.Errorf("wrong user id bound, got %d but want 17", echo.userID)
		}
	})
}

func TestOptionalAuth(t *testing.T) {
	cfg := testAuthConfig("optional-middleware-secret")

	t.Run("lets anonymous requests through without an identity", func(t *testing.T) {
		echo := &identityEcho{}
		response := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)

		OptionalAuth(cfg)(echo.handler()).ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusOK)
		if !echo.called {
			t.Fatal("handler must run for anonymous requests")
		}
		if echo.bound {
			t.Error("no identity must be bound for anonymous requests")
		}
	})

	t.Run("lets requests with an invalid token through anonymously", func(t *testing.T) {
		echo := &identityEcho{}
		response := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer garbage")

		OptionalAuth(cfg)(echo.handler()).ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusOK)
		if echo.bound {
			t.Error("no identity must be bound for an invalid token")
		}
	})

	t.Run("binds the identity for a valid token", func(t *testing.T) {
		token, err := IssueToken(cfg, 23)
		if err != nil {
			t.Fatalf("IssueToken failed: %v", err)
		}

		echo := &identityEcho{}
		response := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer "+token)

		OptionalAuth(cfg)(echo.handler()).ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusOK)
		if !echo.bound || echo.userID != 23 {
			t.Errorf("expected identity 23 bound, got bound=%v id=%d", echo.bound, echo.userID)
		}
	})
}

func assertStatus(t testing.TB, got, want int) {
	t.Helper()

	if got != want {
		t.Errorf("did not get correct status, got %d but want %d", got, want)
	}
}
