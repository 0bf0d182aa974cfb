//go:build bench
// +build bench

package codec

import (
	"strings"
	"testing"
)

func BenchmarkEncode(b *testing.B) {
	benchmarks := []struct {
		name  string
		key   string
		value string
	}{
		{"small", "user:123", "john@example.com"},
		{"medium", strings.Repeat("k", 100), strings.Repeat("v", 1000)},
		{"large", strings.Repeat("k", 1000), strings.Repeat("v", 10000)},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			rec := NewSetRecord(1, 1, bm.key, bm.value)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = rec.Encode()
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	benchmarks := []struct {
		name  string
		key   string
		value string
	}{
		{"small", "user:123", "john@example.com"},
		{"medium", strings.Repeat("k", 100), strings.Repeat("v", 1000)},
		{"large", strings.Repeat("k", 1000), strings.Repeat("v", 10000)},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			body := NewSetRecord(1, 1, bm.key, bm.value).Encode()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Decode(body); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
