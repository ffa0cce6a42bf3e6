package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

var cheapArgon2idParams = Argon2idParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func newTestAuthService(t *testing.T, now *time.Time) *AuthService {
	t.Helper()

	hash, err := CreatePasswordHash("correct horse", cheapArgon2idParams)
	if err != nil {
		t.Fatalf("CreatePasswordHash failed: %v", err)
	}
	ids := 0
	return NewAuthService(
		AdminAccount{Username: "admin", PasswordHash: hash},
		[]byte("test-secret"),
		func() string {
			ids++
			return "session-" + strings.Repeat("x", ids)
		},
		func() time.Time { return *now },
		time.Hour,
	)
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	t.Run("issues a token that validates", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
		svc := newTestAuthService(t, &now)

		session, err := svc.Login(context.Background(), LoginParams{Username: " admin ", Password: "correct horse"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if session.Token == "" || session.Principal.SessionID != "session-x" {
			t.Fatalf("unexpected session %+v", session)
		}
		if !session.ExpiresAt.Equal(now.Add(time.Hour)) {
			t.Fatalf("expected expiry one hour ahead, got %v", session.ExpiresAt)
		}

		principal, err := svc.ValidateSession(context.Background(), session.Token)
		if err != nil {
			t.Fatalf("ValidateSession failed: %v", err)
		}
		if principal.Username != "admin" || principal.SessionID != "session-x" {
			t.Fatalf("unexpected principal %+v", principal)
		}
	})

	t.Run("rejects wrong credentials", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		svc := newTestAuthService(t, &now)
		for _, params := range []LoginParams{
			{Username: "admin", Password: "wrong"},
			{Username: "root", Password: "correct horse"},
			{Username: "", Password: ""},
		} {
			if _, err := svc.Login(context.Background(), params); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login(%+v): expected ErrInvalidCredentials, got %v", params, err)
			}
		}
	})

	t.Run("requires a secret", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(AdminAccount{Username: "admin"}, nil, nil, nil, time.Hour)
		if _, err := svc.Login(context.Background(), LoginParams{Username: "admin", Password: "x"}); err == nil {
			t.Fatal("expected an error without a secret")
		}
	})
}

func TestAuthService_ValidateSession(t *testing.T) {
	t.Parallel()

	t.Run("expired tokens are rejected", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
		svc := newTestAuthService(t, &now)
		session, err := svc.Login(context.Background(), LoginParams{Username: "admin", Password: "correct horse"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		now = now.Add(2 * time.Hour)
		if _, err := svc.ValidateSession(context.Background(), session.Token); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("tokens signed with another secret are rejected", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		issuer := newTestAuthService(t, &now)
		session, err := issuer.Login(context.Background(), LoginParams{Username: "admin", Password: "correct horse"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		other := NewAuthService(AdminAccount{Username: "admin"}, []byte("other-secret"), nil, func() time.Time { return now }, time.Hour)
		if _, err := other.ValidateSession(context.Background(), session.Token); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("empty and garbage tokens are rejected", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		svc := newTestAuthService(t, &now)
		for _, token := range []string{"", "   ", "not.a.jwt"} {
			if _, err := svc.ValidateSession(context.Background(), token); !errors.Is(err, ErrUnauthorized) {
				t.Errorf("ValidateSession(%q): expected ErrUnauthorized, got %v", token, err)
			}
		}
	})

	t.Run("logout revokes the session", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		svc := newTestAuthService(t, &now)
		first, err := svc.Login(context.Background(), LoginParams{Username: "admin", Password: "correct horse"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		second, err := svc.Login(context.Background(), LoginParams{Username: "admin", Password: "correct horse"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		if err := svc.Logout(context.Background(), first.Token); err != nil {
			t.Fatalf("Logout failed: %v", err)
		}
		if _, err := svc.ValidateSession(context.Background(), first.Token); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected revoked session to be rejected, got %v", err)
		}
		if _, err := svc.ValidateSession(context.Background(), second.Token); err != nil {
			t.Fatalf("other sessions must stay valid, got %v", err)
		}
		if err := svc.Logout(context.Background(), "garbage"); err != nil {
			t.Fatalf("logout with an invalid token must be a no-op, got %v", err)
		}
	})
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := CreatePasswordHash("s3cret", cheapArgon2idParams)
	if err != nil {
		t.Fatalf("CreatePasswordHash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected hash layout %q", hash)
	}
	if err := ValidatePasswordHash(hash); err != nil {
		t.Fatalf("ValidatePasswordHash failed: %v", err)
	}
	if err := VerifyPassword(hash, "s3cret"); err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if err := VerifyPassword(hash, "S3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	other, err := CreatePasswordHash("s3cret", cheapArgon2idParams)
	if err != nil {
		t.Fatalf("CreatePasswordHash failed: %v", err)
	}
	if other == hash {
		t.Fatal("expected a fresh salt per hash")
	}

	for _, bad := range []string{"", "plain", "$argon2i$v=19$m=1,t=1,p=1$c2FsdA$a2V5", "$argon2id$v=19$m=x$c2FsdA$a2V5"} {
		if err := ValidatePasswordHash(bad); !errors.Is(err, ErrInvalidPasswordHash) {
			t.Errorf("ValidatePasswordHash(%q): expected ErrInvalidPasswordHash, got %v", bad, err)
		}
	}
	if err := ValidatePasswordHash("$argon2id$v=1$m=1,t=1,p=1$c2FsdA$a2V5"); !errors.Is(err, ErrIncompatiblePasswordVersion) {
		t.Errorf("expected ErrIncompatiblePasswordVersion, got %v", err)
	}
	if _, err := CreatePasswordHash("", cheapArgon2idParams); err == nil {
		t.Error("expected empty passwords to be refused")
	}
}
