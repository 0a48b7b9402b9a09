package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestUserGetSubscriptionFlag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	viewer := env.createUser(t, "bob@example.com", "bob")
	author := env.createUser(t, "alice@example.com", "alice")

	if _, err := env.subService.Subscribe(ctx, viewer.ID, author.ID, 0); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	view, err := env.userService.Get(ctx, viewer.ID, author.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !view.IsSubscribed {
		t.Fatalf("expected is_subscribed for follower")
	}

	// own profile and anonymous viewers are never subscribed
	own, err := env.userService.GetMe(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("GetMe failed: %v", err)
	}
	if own.IsSubscribed {
		t.Fatalf("own profile must not be subscribed")
	}
	anon, err := env.userService.Get(ctx, 0, author.ID)
	if err != nil {
		t.Fatalf("anonymous Get failed: %v", err)
	}
	if anon.IsSubscribed {
		t.Fatalf("anonymous viewer must see is_subscribed=false")
	}
}

func TestUserGetMissing(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.userService.Get(context.Background(), 0, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserListWithFlags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	viewer := env.createUser(t, "bob@example.com", "bob")
	alice := env.createUser(t, "alice@example.com", "alice")
	env.createUser(t, "carol@example.com", "carol")

	if _, err := env.subService.Subscribe(ctx, viewer.ID, alice.ID, 0); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	views, total, err := env.userService.List(ctx, viewer.ID, 0, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 3 || len(views) != 3 {
		t.Fatalf("expected 3 users, got total=%d len=%d", total, len(views))
	}
	for _, v := range views {
		want := v.ID == alice.ID
		if v.IsSubscribed != want {
			t.Fatalf("user %d: is_subscribed=%v, want %v", v.ID, v.IsSubscribed, want)
		}
	}
}

func TestSetAndClearAvatar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "alice@example.com", "alice")

	relPath, err := env.userService.SetAvatar(ctx, user.ID, testImageDataURI())
	if err != nil {
		t.Fatalf("SetAvatar failed: %v", err)
	}
	if relPath == "" {
		t.Fatalf("expected a stored avatar path")
	}
	view, err := env.userService.GetMe(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetMe failed: %v", err)
	}
	if view.Avatar != relPath {
		t.Fatalf("avatar = %q, want %q", view.Avatar, relPath)
	}

	// replacing removes the previous file
	second, err := env.userService.SetAvatar(ctx, user.ID, testImageDataURI())
	if err != nil {
		t.Fatalf("second SetAvatar failed: %v", err)
	}
	if second == relPath {
		t.Fatalf("expected a fresh avatar path")
	}

	if err := env.userService.ClearAvatar(ctx, user.ID); err != nil {
		t.Fatalf("ClearAvatar failed: %v", err)
	}
	view, err = env.userService.GetMe(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetMe after clear failed: %v", err)
	}
	if view.Avatar != "" {
		t.Fatalf("avatar must be empty after clear, got %q", view.Avatar)
	}
}

func TestSetAvatarRejectsBadURI(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "alice")

	if _, err := env.userService.SetAvatar(context.Background(), user.ID, "nope"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMediaSaveAndDelete(t *testing.T) {
	log := testMediaLogger(t)
	root := t.TempDir()
	media, err := NewMediaService(log, root)
	if err != nil {
		t.Fatalf("NewMediaService failed: %v", err)
	}

	relPath, err := media.SaveDataURI(testImageDataURI(), "recipes")
	if err != nil {
		t.Fatalf("SaveDataURI failed: %v", err)
	}
	if filepath.Base(relPath) != "image.png" {
		t.Fatalf("expected image.png file name, got %q", relPath)
	}
	full := filepath.Join(root, filepath.FromSlash(relPath))
	if _, err := os.Stat(full); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	if err := media.Delete(relPath); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Fatalf("file must be gone after Delete")
	}
	// deleting twice is a no-op
	if err := media.Delete(relPath); err != nil {
		t.Fatalf("second Delete must not fail: %v", err)
	}
}

func TestParseImageDataURI(t *testing.T) {
	cases := []struct {
		name    string
		uri     string
		wantErr bool
		wantExt string
	}{
		{"png", testImageDataURI(), false, "png"},
		{"jpeg", "data:image/jpeg;base64,aGVsbG8=", false, "jpeg"},
		{"not a data uri", "hello", true, ""},
		{"wrong mime", "data:text/plain;base64,aGVsbG8=", true, ""},
		{"not base64 marked", "data:image/png,aGVsbG8=", true, ""},
		{"empty payload", "data:image/png;base64,", true, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ext, _, err := parseImageDataURI(tc.uri)
			if tc.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ext != tc.wantExt {
				t.Fatalf("ext = %q, want %q", ext, tc.wantExt)
			}
		})
	}
}
