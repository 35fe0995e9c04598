package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/scoreboard-system/models"
	"github.com/golang-jwt/jwt/v4"
)

var testSecret = []byte("test-secret")

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewAuthService(repo, testSecret)

	user, token, err := service.Register(context.Background(), RegisterInput{
		Name:     "Sam",
		Email:    "sam@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Role != models.RoleScorer {
		t.Errorf("role = %q, want scorer by default", user.Role)
	}
	if user.PasswordHash == "correct-horse" {
		t.Error("password must be stored hashed")
	}
	assertTokenClaims(t, token, user.ID, string(user.Role))

	logged, loginToken, err := service.Login(context.Background(), LoginInput{
		Email:    "sam@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("login user = %d, want %d", logged.ID, user.ID)
	}
	assertTokenClaims(t, loginToken, user.ID, string(user.Role))
}

func assertTokenClaims(t *testing.T, tokenString string, userID int, role string) {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return testSecret, nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token did not parse: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if int(claims["user_id"].(float64)) != userID {
		t.Errorf("user_id claim = %v, want %d", claims["user_id"], userID)
	}
	if claims["role"] != role {
		t.Errorf("role claim = %v, want %q", claims["role"], role)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{"missing email", RegisterInput{Password: "long-enough"}, ErrCredentialsRequired},
		{"missing password", RegisterInput{Email: "a@b.c"}, ErrCredentialsRequired},
		{"short password", RegisterInput{Email: "a@b.c", Password: "short"}, ErrPasswordTooShort},
		{"unknown role", RegisterInput{Email: "a@b.c", Password: "long-enough", Role: "viewer"}, ErrScorerRoleRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewAuthService(newFakeUserRepo(), testSecret)
			_, _, err := service.Register(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service := NewAuthService(newFakeUserRepo(), testSecret)

	if _, _, err := service.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "long-enough"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_, _, err := service.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "long-enough"})
	if !errors.Is(err, ErrEmailConflict) {
		t.Errorf("Register() duplicate error = %v, want %v", err, ErrEmailConflict)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service := NewAuthService(newFakeUserRepo(), testSecret)
	if _, _, err := service.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "long-enough"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name  string
		input LoginInput
	}{
		{"wrong password", LoginInput{Email: "a@b.c", Password: "wrong-password"}},
		{"unknown email", LoginInput{Email: "nobody@b.c", Password: "long-enough"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := service.Login(context.Background(), tt.input); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want %v", err, ErrInvalidCredentials)
			}
		})
	}
}

func TestListScorersExcludesAdmins(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewAuthService(repo, testSecret)

	if _, _, err := service.Register(context.Background(), RegisterInput{Email: "s@b.c", Password: "long-enough"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := service.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "long-enough", Role: string(models.RoleAdmin)}); err != nil {
		t.Fatal(err)
	}

	users, err := service.ListScorers(context.Background())
	if err != nil {
		t.Fatalf("ListScorers() error = %v", err)
	}
	if len(users) != 1 || users[0].Role != models.RoleScorer {
		t.Errorf("ListScorers() = %v, want only the scorer account", users)
	}
}
