package local

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir(), "/api/v1/files")
	ctx := context.Background()

	key, size, mime, err := store.Save(ctx, "user-1", "job.txt", strings.NewReader("Senior Go engineer"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("Senior Go engineer")) {
		t.Fatalf("unexpected size %d", size)
	}
	if !strings.HasPrefix(mime, "text/plain") {
		t.Fatalf("unexpected mime %q", mime)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "Senior Go engineer" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestURLRejectsTraversal(t *testing.T) {
	store := New(t.TempDir(), "")
	if _, err := store.URL(context.Background(), "../etc/passwd", time.Minute); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
	got, err := store.URL(context.Background(), "resumes/abc/gen 1.html", time.Minute)
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if got != "/api/v1/files/resumes/abc/gen%201.html" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestSaveRejectsTraversalName(t *testing.T) {
	store := New(t.TempDir(), "")
	if _, _, _, err := store.Save(context.Background(), "user-1", "../../x", strings.NewReader("x")); err == nil {
		t.Fatalf("expected invalid name error")
	}
}
