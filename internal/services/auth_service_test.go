package services_test

import (
	"errors"
	"testing"

	"gemlight/internal/repos"
	"gemlight/internal/services"
)

func TestRegisterLoginTokenRoundTrip(t *testing.T) {
	db := memdb(t)
	auth := services.NewAuthService(repos.NewUserRepo(db), "test-secret")

	u, tok, err := auth.Register("sid-1", "new@gemlight.test", "New Customer", "Sup3rSecret!")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != "USER" || tok == "" {
		t.Fatalf("bad register result: role=%s token=%q", u.Role, tok)
	}

	got, err := auth.UserFromToken(tok)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID {
		t.Fatalf("token resolved to wrong user: %s vs %s", got.ID, u.ID)
	}

	// duplicate email
	if _, _, err := auth.Register("sid-2", "new@gemlight.test", "Again", "Sup3rSecret!"); !errors.Is(err, services.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestLoginSeededUser(t *testing.T) {
	db := memdb(t)
	auth := services.NewAuthService(repos.NewUserRepo(db), "test-secret")

	if _, _, err := auth.Login("sid-1", "maya@gemlight.test", "wrong"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}

	u, tok, err := auth.Login("sid-1", "maya@gemlight.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "maya@gemlight.test" || tok == "" {
		t.Fatalf("bad login result: %+v", u)
	}
}

func TestTokenFromWrongSecretRejected(t *testing.T) {
	db := memdb(t)
	users := repos.NewUserRepo(db)
	good := services.NewAuthService(users, "secret-a")
	evil := services.NewAuthService(users, "secret-b")

	_, tok, err := good.Login("", "maya@gemlight.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := evil.UserFromToken(tok); !errors.Is(err, services.ErrBadToken) {
		t.Fatalf("want ErrBadToken, got %v", err)
	}
	if _, err := good.UserFromToken("not-a-token"); !errors.Is(err, services.ErrBadToken) {
		t.Fatalf("want ErrBadToken, got %v", err)
	}
}

func TestLoginBindsSessionToUser(t *testing.T) {
	db := memdb(t)
	users := repos.NewUserRepo(db)
	auth := services.NewAuthService(users, "test-secret")

	u, _, err := auth.Login("watcher-session", "omar@gemlight.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	got, err := users.SessionUser("watcher-session")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID {
		t.Fatalf("session bound to wrong user: %s vs %s", got.ID, u.ID)
	}
}
