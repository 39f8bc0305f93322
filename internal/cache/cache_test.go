package cache

import (
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c := New(true)
	etag := c.Set(Key("averages", "u1"), []byte(`{"a":1}`), time.Minute)

	data, got, ok := c.Get(Key("averages", "u1"))
	if !ok {
		t.Fatal("expected hit")
	}
	if string(data) != `{"a":1}` || got != etag {
		t.Errorf("got %s %s, want data and etag %s", data, got, etag)
	}

	if _, _, ok := c.Get(Key("averages", "u2")); ok {
		t.Error("expected miss for another user")
	}
}

func TestCache_Disabled(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("v"), time.Minute)
	if etag == "" {
		t.Error("disabled cache should still compute an ETag")
	}
	if _, _, ok := c.Get("k"); ok {
		t.Error("disabled cache should never hit")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New(true)
	c.Set("k", []byte("v"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, _, ok := c.Get("k"); ok {
		t.Error("expired entry should miss")
	}
}

func TestCache_InvalidateUser(t *testing.T) {
	c := New(true)
	c.Set(Key("counts", "u1"), []byte("1"), time.Minute)
	c.Set(Key("entries", "u1"), []byte("2"), time.Minute)
	c.Set(Key("counts", "u2"), []byte("3"), time.Minute)
	c.Set(Key("averages", ""), []byte("4"), time.Minute)
	c.Set(Key("users", ""), []byte("5"), time.Minute)

	if n := c.InvalidateUser("u1"); n != 4 {
		t.Errorf("removed %d entries, want 4", n)
	}
	if _, _, ok := c.Get(Key("counts", "u2")); !ok {
		t.Error("other users' entries should survive")
	}
	if _, _, ok := c.Get(Key("averages", "all")); ok {
		t.Error("all-users entries should be dropped")
	}

	c.Flush()
	if _, _, ok := c.Get(Key("counts", "u2")); ok {
		t.Error("flush should drop everything")
	}
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("body"))
	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{name: "empty", header: "", want: false},
		{name: "wildcard", header: "*", want: true},
		{name: "exact", header: etag, want: true},
		{name: "list", header: `W/"other", ` + etag, want: true},
		{name: "stale", header: `W/"other"`, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckETagMatch(tt.header, etag); got != tt.want {
				t.Errorf("CheckETagMatch(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}
