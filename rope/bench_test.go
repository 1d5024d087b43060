package rope

import (
	"strings"
	"testing"
)

func benchText(lines int) string {
	return strings.Repeat("the quick brown fox jumps over the lazy dog\n", lines)
}

func BenchmarkFromString(b *testing.B) {
	text := benchText(10000)
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FromString(text)
	}
}

func BenchmarkEditStr(b *testing.B) {
	r := FromString(benchText(10000))
	n := r.Len()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		at := (i * 4391) % (n - 10)
		r = r.EditStr(at, at+1, "x")
	}
}

func BenchmarkSlice(b *testing.B) {
	r := FromString(benchText(10000))
	n := r.Len()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		at := (i * 4391) % (n / 2)
		_ = r.Slice(at, at+n/4)
	}
}

func BenchmarkLineOfOffset(b *testing.B) {
	r := FromString(benchText(10000))
	n := r.Len()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.LineOfOffset((i * 4391) % n)
	}
}

func BenchmarkCursorNextLine(b *testing.B) {
	r := FromString(benchText(10000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := NewCursor(r, 0)
		for {
			if _, ok := c.NextBoundary(Lines); !ok {
				break
			}
		}
	}
}

func BenchmarkIterChunks(b *testing.B) {
	r := FromString(benchText(10000))
	b.SetBytes(int64(r.Len()))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		it := r.IterChunks(0, r.Len())
		for it.Next() {
			_ = it.Chunk()
		}
	}
}
