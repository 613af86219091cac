package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
)

const emulatorProject = "demo-shpe"

// Firestore returns a client bound to the local emulator, skipping the test
// when FIRESTORE_EMULATOR_HOST is not set.
func Firestore(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set; skipping emulator test")
	}
	client, err := firestore.NewClient(context.Background(), emulatorProject)
	if err != nil {
		t.Fatalf("firestore client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// Retry re-runs fn until it returns nil or attempts are exhausted. Emulator
// writes are occasionally visible a beat late; production code does not
// retry, tests do.
func Retry(t *testing.T, attempts int, delay time.Duration, fn func() error) {
	t.Helper()
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return
		}
		time.Sleep(delay)
	}
	t.Fatalf("condition not met after %d attempts: %v", attempts, err)
}

// ClearCollection deletes every document in a collection between tests.
func ClearCollection(t *testing.T, client *firestore.Client, path string) {
	t.Helper()
	ctx := context.Background()
	docs, err := client.Collection(path).Documents(ctx).GetAll()
	if err != nil {
		t.Fatalf("list %s: %v", path, err)
	}
	for _, doc := range docs {
		if _, err := doc.Ref.Delete(ctx); err != nil {
			t.Fatalf("delete %s/%s: %v", path, doc.Ref.ID, err)
		}
	}
}
