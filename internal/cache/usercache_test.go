package cache

import (
	"testing"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
)

func TestUserCachePutGet(t *testing.T) {
	c, err := NewUserCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewUserCache: %v", err)
	}

	if got := c.Get("uid-1"); got != nil {
		t.Fatalf("empty cache returned %+v", got)
	}

	u := &models.User{PublicInfo: models.PublicUserInfo{UID: "uid-1", Name: "Paco"}}
	if err := c.Put("uid-1", u); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got := c.Get("uid-1")
	if got == nil || got.PublicInfo.Name != "Paco" {
		t.Fatalf("Get = %+v, want cached user", got)
	}
}

func TestUserCachePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	c, err := NewUserCache(dir)
	if err != nil {
		t.Fatalf("NewUserCache: %v", err)
	}
	u := &models.User{PublicInfo: models.PublicUserInfo{UID: "uid-1", Points: 12}}
	if err := c.Put("uid-1", u); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.SetPushToken("uid-1", "ExponentPushToken[abc]"); err != nil {
		t.Fatalf("SetPushToken: %v", err)
	}

	reopened, err := NewUserCache(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reopened.Get("uid-1")
	if got == nil || got.PublicInfo.Points != 12 {
		t.Fatalf("reopened Get = %+v, want persisted user", got)
	}
	if tok := reopened.PushToken("uid-1"); tok != "ExponentPushToken[abc]" {
		t.Errorf("PushToken = %q, want persisted token", tok)
	}
}

func TestUserCachePutOverwritesWholesale(t *testing.T) {
	c, err := NewUserCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewUserCache: %v", err)
	}

	first := &models.User{PublicInfo: models.PublicUserInfo{UID: "uid-1", Major: "CPSC", Points: 5}}
	if err := c.Put("uid-1", first); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// A replacement without Major must not retain the old field.
	second := &models.User{PublicInfo: models.PublicUserInfo{UID: "uid-1", Points: 6}}
	if err := c.Put("uid-1", second); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got := c.Get("uid-1")
	if got.PublicInfo.Major != "" || got.PublicInfo.Points != 6 {
		t.Errorf("Put did not replace wholesale: %+v", got.PublicInfo)
	}
}

func TestUserCacheRemove(t *testing.T) {
	c, err := NewUserCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewUserCache: %v", err)
	}
	if err := c.Put("uid-1", &models.User{}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.SetPushToken("uid-1", "tok"); err != nil {
		t.Fatalf("SetPushToken: %v", err)
	}
	if err := c.Remove("uid-1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if c.Get("uid-1") != nil || c.PushToken("uid-1") != "" {
		t.Error("Remove left data behind")
	}
}
