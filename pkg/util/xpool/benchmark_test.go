package xpool

import (
	"io"
	"sync"
	"testing"

	"github.com/omeyang/xthreadpool/pkg/observability/xlog"
)

func newBenchPool(b *testing.B, workers int) *Pool {
	b.Helper()
	logger, _, err := xlog.New().SetOutput(io.Discard).Build()
	if err != nil {
		b.Fatal(err)
	}
	p, err := New(workers, WithLogger(logger))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() {
		if err := shutdown(p); err != nil {
			b.Error(err)
		}
	})
	return p
}

func BenchmarkSubmit(b *testing.B) {
	p := newBenchPool(b, 4)

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if err := p.Submit(func() {}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSubmit_Parallel(b *testing.B) {
	p := newBenchPool(b, 4)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := p.Submit(func() {}); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

func BenchmarkSubmitAndProcess(b *testing.B) {
	p := newBenchPool(b, 4)

	var wg sync.WaitGroup
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		wg.Add(1)
		if err := p.Submit(wg.Done); err != nil {
			b.Fatal(err)
		}
	}
	wg.Wait()
}

func BenchmarkPanicRecovery(b *testing.B) {
	p := newBenchPool(b, 4)

	var wg sync.WaitGroup
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		wg.Add(1)
		if err := p.Submit(func() {
			defer wg.Done()
			panic("bench")
		}); err != nil {
			b.Fatal(err)
		}
	}
	wg.Wait()
}
