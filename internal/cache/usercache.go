// Package cache persists the last-known copy of each authenticated user's
// record, the way the mobile client kept a single serialized user in device
// storage. Entries carry no expiry; callers must treat them as possibly stale
// and re-fetch from Firestore when correctness matters.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
)

type cacheFile struct {
	Users      map[string]*models.User `json:"users"`
	PushTokens map[string]string       `json:"pushTokens"`
}

// UserCache is a thread-safe JSON file-backed store of user records plus the
// last registered push token per uid.
type UserCache struct {
	mu       sync.RWMutex
	filePath string
	data     cacheFile
}

// NewUserCache loads (or initializes) the cache file under dataDir.
func NewUserCache(dataDir string) (*UserCache, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	c := &UserCache{
		filePath: filepath.Join(dataDir, "users.json"),
		data: cacheFile{
			Users:      make(map[string]*models.User),
			PushTokens: make(map[string]string),
		},
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *UserCache) load() error {
	file, err := os.Open(c.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// First run, nothing persisted yet.
			return nil
		}
		return err
	}
	defer file.Close()

	var loaded cacheFile
	if err := json.NewDecoder(file).Decode(&loaded); err != nil {
		return err
	}
	if loaded.Users != nil {
		c.data.Users = loaded.Users
	}
	if loaded.PushTokens != nil {
		c.data.PushTokens = loaded.PushTokens
	}
	return nil
}

// save must be called with c.mu held for writing.
func (c *UserCache) save() error {
	tempFile := c.filePath + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(c.data); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	// Atomic rename
	return os.Rename(tempFile, c.filePath)
}

// Get returns the cached record for uid, or nil when none is held.
func (c *UserCache) Get(uid string) *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Users[uid]
}

// Put replaces the cached record wholesale. There is no partial merge at this
// layer; callers store the full post-mutation record.
func (c *UserCache) Put(uid string, user *models.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Users[uid] = user
	return c.save()
}

// Remove drops a cached record, e.g. on sign-out.
func (c *UserCache) Remove(uid string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data.Users, uid)
	delete(c.data.PushTokens, uid)
	return c.save()
}

// PushToken returns the last push token registered for uid.
func (c *UserCache) PushToken(uid string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.PushTokens[uid]
}

// SetPushToken records the latest registered push token for uid.
func (c *UserCache) SetPushToken(uid, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.PushTokens[uid] = token
	return c.save()
}
