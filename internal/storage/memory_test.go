package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreCopiesOnPut(t *testing.T) {
	m := NewMemoryStore()
	data := []byte("original")
	meta := ObjectMeta{ContentType: "text/plain", Metadata: map[string]string{"k": "v"}}

	if err := m.Put(context.Background(), "a/b", data, meta); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data[0] = 'X'
	meta.Metadata["k"] = "mutated"

	obj, ok := m.Get("a/b")
	if !ok {
		t.Fatal("object missing")
	}
	if string(obj.Data) != "original" {
		t.Errorf("stored data aliased caller slice: %q", obj.Data)
	}
	if obj.Meta.Metadata["k"] != "v" {
		t.Errorf("stored metadata aliased caller map: %q", obj.Meta.Metadata["k"])
	}
}

func TestMemoryStoreKeysSorted(t *testing.T) {
	m := NewMemoryStore()
	for _, k := range []string{"c", "a", "b"} {
		if err := m.Put(context.Background(), k, []byte(k), ObjectMeta{}); err != nil {
			t.Fatalf("Put %s: %v", k, err)
		}
	}
	keys := m.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("Keys = %v, want [a b c]", keys)
	}
	if m.Len() != 3 {
		t.Errorf("Len = %d, want 3", m.Len())
	}
}

func TestMemoryStoreFailureHooks(t *testing.T) {
	m := NewMemoryStore()
	boom := errors.New("boom")

	m.FailPuts(boom)
	if err := m.Put(context.Background(), "k", nil, ObjectMeta{}); !errors.Is(err, boom) {
		t.Errorf("Put err = %v, want induced failure", err)
	}
	m.FailPuts(nil)
	if err := m.Put(context.Background(), "k", nil, ObjectMeta{}); err != nil {
		t.Errorf("Put after reset: %v", err)
	}

	m.FailHead(boom)
	if err := m.HeadBucket(context.Background()); !errors.Is(err, boom) {
		t.Errorf("HeadBucket err = %v, want induced failure", err)
	}
}

func TestMemoryStoreClosedRejectsWrites(t *testing.T) {
	m := NewMemoryStore()
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := m.Put(context.Background(), "k", nil, ObjectMeta{}); err == nil {
		t.Error("Put on closed store succeeded")
	}
	if err := m.HeadBucket(context.Background()); err == nil {
		t.Error("HeadBucket on closed store succeeded")
	}
}

func TestMemoryStoreHonorsContext(t *testing.T) {
	m := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Put(ctx, "k", nil, ObjectMeta{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Put err = %v, want context.Canceled", err)
	}
}
