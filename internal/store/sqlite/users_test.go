package sqlite

import (
	"context"
	"testing"

	"github.com/movievaultapp/movievault-server/internal/store"
)

func TestCreateUserAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "Test@Example.com")

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != "Test@Example.com" {
		t.Errorf("email = %q, want original casing preserved", got.Email)
	}
	if got.PasswordHash != u.PasswordHash {
		t.Errorf("password hash mismatch")
	}

	// Email lookup is case-insensitive.
	byEmail, err := s.GetUserByEmail(ctx, "test@example.COM")
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("got user %s, want %s", byEmail.ID, u.ID)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	newTestUser(t, s, "dup@example.com")

	u2 := newTestUser(t, s, "other@example.com")
	u2.Email = "DUP@example.com"
	u2.Touch()
	if err := s.UpdateUser(context.Background(), u2); err != store.ErrAlreadyExists {
		t.Errorf("update to duplicate email: got %v, want ErrAlreadyExists", err)
	}

	// Direct duplicate insert.
	u3 := newTestUser(t, s, "unique@example.com")
	u3.Email = "dup@example.com"
	u3.ID = "user-duplicate-test"
	if err := s.CreateUser(context.Background(), u3); err != store.ErrAlreadyExists {
		t.Errorf("create with duplicate email: got %v, want ErrAlreadyExists", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetUser(context.Background(), "user-missing"); err != store.ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if _, err := s.GetUserByEmail(context.Background(), "nobody@example.com"); err != store.ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteUserSoftDeletes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "gone@example.com")

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := s.GetUser(ctx, u.ID); err != store.ErrNotFound {
		t.Errorf("deleted user still retrievable: %v", err)
	}
	if err := s.DeleteUser(ctx, u.ID); err != store.ErrNotFound {
		t.Errorf("double delete: got %v, want ErrNotFound", err)
	}
}
