package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/inkwell-go/apperror"
)

// stubUserStore is an in-memory UserStore mirroring the database contract:
// a duplicate email surfaces as the driver's unique-violation error, an
// unknown email as pgx.ErrNoRows.
type stubUserStore struct {
	users  map[string]User
	nextID int
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: map[string]User{}, nextID: 1}
}

func (s *stubUserStore) CreateUser(_ context.Context, user *User) (*User, error) {
	if _, exists := s.users[user.Email]; exists {
		return nil, &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"}
	}
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	s.nextID++
	s.users[user.Email] = *user
	return user, nil
}

func (s *stubUserStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	user, exists := s.users[email]
	if !exists {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func newTestAuthService() (*AuthService, *stubUserStore) {
	store := newStubUserStore()
	return NewAuthService(store, testAuthConfig("service-test-secret")), store
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user and issues a verifiable token", func(t *testing.T) {
		service, store := newTestAuthService()

		resp, err := service.Register(ctx, RegisterRequest{Name: "A", Email: "A@X.com", Password: "secret"})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if resp.Email != "a@x.com" {
			t.Errorf("email not stored lowercase, got %q", resp.Email)
		}
		if resp.Token == "" {
			t.Fatal("registration must issue a token")
		}
		result := VerifyToken(testAuthConfig("service-test-secret"), resp.Token)
		if !result.Valid || result.UserID != resp.ID {
			t.Errorf("issued token does not verify to the new user, got %+v", result)
		}
		if stored := store.users["a@x.com"]; stored.HashedPassword == "secret" {
			t.Error("password must be stored hashed, not in the clear")
		}
	})

	t.Run("second registration with a used email fails with Conflict", func(t *testing.T) {
		service, _ := newTestAuthService()

		if _, err := service.Register(ctx, RegisterRequest{Name: "A", Email: "a@x.com", Password: "secret"}); err != nil {
			t.Fatalf("first registration failed: %v", err)
		}

		// Other field values are irrelevant; the email alone conflicts.
		_, err := service.Register(ctx, RegisterRequest{Name: "Someone Else", Email: "a@x.com", Password: "different"})
		if !apperror.IsConflict(err) {
			t.Fatalf("expected a Conflict error, got %v", err)
		}
		assertErrorStatus(t, err, http.StatusBadRequest)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestAuthService()

	if _, err := service.Register(ctx, RegisterRequest{Name: "A", Email: "a@x.com", Password: "right-password"}); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	t.Run("returns a verifiable token for correct credentials", func(t *testing.T) {
		resp, err := service.Login(ctx, LoginRequest{Email: "a@x.com", Password: "right-password"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		result := VerifyToken(testAuthConfig("service-test-secret"), resp.Token)
		if !result.Valid || result.UserID != resp.ID {
			t.Errorf("issued token does not verify to the user, got %+v", result)
		}
	})

	t.Run("wrong password and nonexistent email fail identically", func(t *testing.T) {
		cases := []struct {
			name string
			req  LoginRequest
		}{
			{"wrong password", LoginRequest{Email: "a@x.com", Password: "wrong-password"}},
			{"nonexistent email", LoginRequest{Email: "nobody@x.com", Password: "right-password"}},
		}

		var messages []string
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				_, err := service.Login(ctx, c.req)
				if err == nil {
					t.Fatal("expected login to fail")
				}
				assertErrorStatus(t, err, http.StatusBadRequest)

				appErr, ok := apperror.FromError(err)
				if !ok {
					t.Fatalf("expected an AppError, got %v", err)
				}
				messages = append(messages, appErr.ToResponse().Message)
			})
		}

		// The two failure modes must be indistinguishable to the client.
		if len(messages) == 2 && messages[0] != messages[1] {
			t.Errorf("failure messages differ: %q vs %q", messages[0], messages[1])
		}
	})
}

func assertErrorStatus(t testing.TB, err error, want int) {
	t.Helper()

	appErr, ok := apperror.FromError(err)
	if !ok {
		t.Fatalf("expected an AppError, got %v", err)
	}
	if got := appErr.StatusCode(); got != want {
		t.Errorf("did not get correct status, got %d but want %d", got, want)
	}
}
