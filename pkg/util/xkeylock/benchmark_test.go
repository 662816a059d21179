package xkeylock

import (
	"context"
	"strconv"
	"testing"
)

func BenchmarkAcquireUnlock(b *testing.B) {
	l, err := New()
	if err != nil {
		b.Fatal(err)
	}
	defer l.Close()
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		h, err := l.Acquire(ctx, "/var/log/app")
		if err != nil {
			b.Fatal(err)
		}
		_ = h.Unlock()
	}
}

func BenchmarkAcquireUnlock_ParallelKeys(b *testing.B) {
	l, err := New()
	if err != nil {
		b.Fatal(err)
	}
	defer l.Close()
	keys := make([]string, 64)
	for i := range keys {
		keys[i] = "/var/log/app-" + strconv.Itoa(i)
	}
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			h, err := l.Acquire(ctx, keys[i%len(keys)])
			if err != nil {
				b.Error(err)
				return
			}
			_ = h.Unlock()
			i++
		}
	})
}
