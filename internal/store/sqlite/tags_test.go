package sqlite

import (
	"context"
	"testing"

	"github.com/movievaultapp/movievault-server/internal/domain"
	"github.com/movievaultapp/movievault-server/internal/id"
	"github.com/movievaultapp/movievault-server/internal/store"
)

func newTestTag(t *testing.T, s *Store, userID, name string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{UserID: userID, Name: name}
	tag.ID = id.MustGenerate("tag")
	tag.InitTimestamps()
	if err := s.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("create tag %q: %v", name, err)
	}
	return tag
}

func TestListTagsOrderedByNameDescending(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s, "tags@example.com")

	newTestTag(t, s, u.ID, "Action")
	newTestTag(t, s, u.ID, "Horror")
	newTestTag(t, s, u.ID, "Comedy")

	tags, err := s.ListTags(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}

	want := []string{"Horror", "Comedy", "Action"}
	if len(tags) != len(want) {
		t.Fatalf("got %d tags, want %d", len(tags), len(want))
	}
	for i, name := range want {
		if tags[i].Name != name {
			t.Errorf("tags[%d].Name = %q, want %q", i, tags[i].Name, name)
		}
	}
}

func TestListTagsScopedToOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := newTestUser(t, s, "alice@example.com")
	bob := newTestUser(t, s, "bob@example.com")

	mine := newTestTag(t, s, alice.ID, "sci-fi")
	newTestTag(t, s, bob.ID, "thriller")

	tags, err := s.ListTags(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 1 || tags[0].ID != mine.ID {
		t.Fatalf("got %d tags, want only %s", len(tags), mine.ID)
	}

	// A tag is invisible to non-owners.
	if _, err := s.GetTag(ctx, mine.ID, bob.ID); err != store.ErrNotFound {
		t.Errorf("cross-user get: got %v, want ErrNotFound", err)
	}
}

func TestCreateTagDuplicateNamePerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := newTestUser(t, s, "alice@example.com")
	bob := newTestUser(t, s, "bob@example.com")

	newTestTag(t, s, alice.ID, "horror")

	dup := &domain.Tag{UserID: alice.ID, Name: "horror"}
	dup.ID = id.MustGenerate("tag")
	dup.InitTimestamps()
	if err := s.CreateTag(ctx, dup); err != store.ErrAlreadyExists {
		t.Errorf("duplicate name for same user: got %v, want ErrAlreadyExists", err)
	}

	// Two users can own the same name.
	newTestTag(t, s, bob.ID, "horror")
}

func TestUpdateAndDeleteTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "tags@example.com")
	tag := newTestTag(t, s, u.ID, "drama")

	tag.Name = "melodrama"
	tag.Touch()
	if err := s.UpdateTag(ctx, tag); err != nil {
		t.Fatalf("update tag: %v", err)
	}

	got, err := s.GetTag(ctx, tag.ID, u.ID)
	if err != nil {
		t.Fatalf("get tag: %v", err)
	}
	if got.Name != "melodrama" {
		t.Errorf("name = %q after update", got.Name)
	}

	if err := s.DeleteTag(ctx, tag.ID, u.ID); err != nil {
		t.Fatalf("delete tag: %v", err)
	}
	if _, err := s.GetTag(ctx, tag.ID, u.ID); err != store.ErrNotFound {
		t.Errorf("deleted tag still retrievable: %v", err)
	}
}

func TestCountTagsByIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := newTestUser(t, s, "alice@example.com")
	bob := newTestUser(t, s, "bob@example.com")

	t1 := newTestTag(t, s, alice.ID, "one")
	t2 := newTestTag(t, s, alice.ID, "two")
	foreign := newTestTag(t, s, bob.ID, "three")

	n, err := s.CountTagsByIDs(ctx, alice.ID, []string{t1.ID, t2.ID})
	if err != nil {
		t.Fatalf("count tags: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}

	// Foreign and unknown ids do not count.
	n, err = s.CountTagsByIDs(ctx, alice.ID, []string{t1.ID, foreign.ID, "tag-missing"})
	if err != nil {
		t.Fatalf("count tags: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}
