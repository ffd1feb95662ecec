package utils

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCache_FileValidation(t *testing.T) {
	cache := NewCache[string, string]()

	tmpFile := filepath.Join(t.TempDir(), "test.decor")
	content := "package sample"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	if err := cache.SetWithFileInfo("test", content, tmpFile); err != nil {
		t.Fatalf("failed to set cache with file info: %v", err)
	}

	value, exists := cache.GetWithFileValidation("test", tmpFile)
	if !exists || value != content {
		t.Fatalf("expected cached %q, got %q (exists=%v)", content, value, exists)
	}

	time.Sleep(10 * time.Millisecond)
	if err := os.WriteFile(tmpFile, []byte("package sample\nclass Task\n"), 0644); err != nil {
		t.Fatalf("failed to modify temp file: %v", err)
	}

	if _, exists := cache.GetWithFileValidation("test", tmpFile); exists {
		t.Error("expected cached value to be invalidated after file change")
	}
	if cache.Size() != 0 {
		t.Errorf("expected cache to be empty after invalidation, got size %d", cache.Size())
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	cache := NewCache[string, string]()
	dir := t.TempDir()

	for _, name := range []string{"a.decor", "b.decor"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(name), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		if err := cache.SetWithFileInfo(path, name, path); err != nil {
			t.Fatalf("failed to cache %s: %v", name, err)
		}
	}
	if cache.Size() != 2 {
		t.Fatalf("expected size 2, got %d", cache.Size())
	}

	cache.Delete(filepath.Join(dir, "a.decor"))
	if _, ok := cache.Get(filepath.Join(dir, "a.decor")); ok {
		t.Error("expected a.decor to be deleted")
	}

	cache.Clear()
	if cache.Size() != 0 {
		t.Errorf("expected size 0 after clear, got %d", cache.Size())
	}
}

func TestCache_SetWithFileInfoNonExistentFile(t *testing.T) {
	cache := NewCache[string, string]()

	if err := cache.SetWithFileInfo("test", "content", "/nonexistent/file.decor"); err == nil {
		t.Error("expected error for non-existent file")
	}
	if _, exists := cache.GetWithFileValidation("test", "/nonexistent/file.decor"); exists {
		t.Error("expected false for non-existent file")
	}
}

func TestOnceCache_ComputesOnce(t *testing.T) {
	cache := NewOnceCache[string, int]()
	var calls int32

	compute := func(key string) (int, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(5 * time.Millisecond)
		return len(key), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := cache.Get("Task", compute)
			if err != nil || value != 4 {
				t.Errorf("unexpected result %d, %v", value, err)
			}
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("expected one computation, got %d", calls)
	}
	if value, ok := cache.GetIfPresent("Task"); !ok || value != 4 {
		t.Errorf("expected cached value 4, got %d (ok=%v)", value, ok)
	}
}

func TestOnceCache_KeepsErrors(t *testing.T) {
	cache := NewOnceCache[string, int]()
	failure := errors.New("cannot generate")
	calls := 0

	for i := 0; i < 3; i++ {
		_, err := cache.Get("Final", func(string) (int, error) {
			calls++
			return 0, failure
		})
		if !errors.Is(err, failure) {
			t.Fatalf("expected cached failure, got %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("expected failure to be computed once, got %d", calls)
	}
	if _, ok := cache.GetIfPresent("Final"); ok {
		t.Error("failed entries are not present")
	}
}

func TestOnceCache_PutAndClear(t *testing.T) {
	cache := NewOnceCache[string, string]()

	cache.Put("Task", "first")
	cache.Put("Task", "second")
	value, err := cache.Get("Task", func(string) (string, error) { return "computed", nil })
	if err != nil || value != "first" {
		t.Errorf("expected first stored value to win, got %q, %v", value, err)
	}

	cache.Clear()
	if cache.Size() != 0 {
		t.Errorf("expected empty cache, got %d", cache.Size())
	}
}
