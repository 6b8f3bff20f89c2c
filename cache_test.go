package hwp

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/logicossoftware/go-hwp/internal/hwptest"
)

func TestCache(t *testing.T) {
	c, err := NewCache(2)
	if err != nil {
		t.Fatal(err)
	}
	a := hwptest.Simple("a").Bytes()
	b := hwptest.Simple("b").Bytes()
	ctx := context.Background()

	d1, err := c.Parse(ctx, a)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := c.Parse(ctx, append([]byte(nil), a...))
	if err != nil {
		t.Fatal(err)
	}
	if d1 != d2 {
		t.Fatal("identical input should return the cached document")
	}
	d3, err := c.Parse(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if d3 == d1 || c.Len() != 2 {
		t.Fatalf("distinct input: len %d", c.Len())
	}
	c.Purge()
	if c.Len() != 0 {
		t.Fatal("purge left entries")
	}
}

func TestCache_FailuresNotCached(t *testing.T) {
	c, err := NewCache(4, WithVersionPolicy(PolicyExact))
	if err != nil {
		t.Fatal(err)
	}
	f := hwptest.Simple("x")
	f.Header = hwptest.FileHeader(5, 1, 0, 1, 0)
	if _, err := c.Parse(context.Background(), f.Bytes()); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("got %v", err)
	}
	if c.Len() != 0 {
		t.Fatal("failed parse was cached")
	}
}

func TestCache_Concurrent(t *testing.T) {
	c, err := NewCache(8)
	if err != nil {
		t.Fatal(err)
	}
	raw := hwptest.Simple("동시").Bytes()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Parse(context.Background(), raw); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if c.Len() != 1 {
		t.Fatalf("got %d entries", c.Len())
	}
}

func TestNewCache_InvalidSize(t *testing.T) {
	if _, err := NewCache(0); err == nil {
		t.Fatal("expected error")
	}
}
