package rope

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	r := New()
	if r.Len() != 0 {
		t.Errorf("New rope should have length 0, got %d", r.Len())
	}
	if !r.IsEmpty() {
		t.Error("New rope should be empty")
	}
	if r.String() != "" {
		t.Errorf("New rope String() should be empty, got %q", r.String())
	}
	if r.LineCount() != 1 {
		t.Errorf("New rope should have 1 line, got %d", r.LineCount())
	}
}

func TestFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"single char", "a"},
		{"short string", "hello"},
		{"with newline", "hello\nworld"},
		{"multiple newlines", "a\nb\nc\nd"},
		{"unicode", "hello 世界 🌍"},
		{"long string", strings.Repeat("abcdefghij", 100)},
		{"very long string", strings.Repeat("x", 10000)},
		{"long with newlines", strings.Repeat("hello world\n", 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			if r.String() != tt.input {
				t.Errorf("String() round trip failed for %d bytes", len(tt.input))
			}
			if r.Len() != len(tt.input) {
				t.Errorf("Len() = %d, want %d", r.Len(), len(tt.input))
			}
			if got, want := r.Measure(Lines), strings.Count(tt.input, "\n"); got != want {
				t.Errorf("Measure(Lines) = %d, want %d", got, want)
			}
		})
	}
}

func TestEditStr(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		start    int
		end      int
		text     string
		expected string
	}{
		{"replace middle", "hello world", 1, 9, "era", "herald"},
		{"insert at start", "world", 0, 0, "hello ", "hello world"},
		{"insert at end", "hello", 5, 5, " world", "hello world"},
		{"delete from start", "hello world", 0, 6, "", "world"},
		{"delete from end", "hello world", 5, 11, "", "hello"},
		{"delete all", "hello", 0, 5, "", ""},
		{"replace all", "hello", 0, 5, "world", "world"},
		{"unicode replace", "世界", 3, 6, "!", "世!"},
		{"empty noop", "hello", 3, 3, "", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.initial)
			r = r.EditStr(tt.start, tt.end, tt.text)
			if got := r.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestInsertDeleteReplace(t *testing.T) {
	r := FromString("hello world")
	if got := r.Insert(5, ",").String(); got != "hello, world" {
		t.Errorf("Insert = %q", got)
	}
	if got := r.Delete(0, 6).String(); got != "world" {
		t.Errorf("Delete = %q", got)
	}
	if got := r.Replace(6, 11, "universe").String(); got != "hello universe" {
		t.Errorf("Replace = %q", got)
	}
	// Original unchanged.
	if r.String() != "hello world" {
		t.Error("operations must not mutate the receiver")
	}
}

func TestSliceLaw(t *testing.T) {
	input := strings.Repeat("0123456789\n", 400)
	r := FromString(input)
	intervals := [][2]int{{0, 0}, {0, 11}, {5, 17}, {100, 3000}, {4390, 4400}, {0, len(input)}}
	for _, iv := range intervals {
		s := r.Slice(iv[0], iv[1])
		if s.Len() != iv[1]-iv[0] {
			t.Errorf("Slice(%d, %d).Len() = %d, want %d", iv[0], iv[1], s.Len(), iv[1]-iv[0])
		}
		if s.String() != input[iv[0]:iv[1]] {
			t.Errorf("Slice(%d, %d) content mismatch", iv[0], iv[1])
		}
	}
}

func TestConcatLaw(t *testing.T) {
	cases := [][2]string{
		{"hello ", "world"},
		{"", "world"},
		{"hello", ""},
		{strings.Repeat("a\n", 2000), strings.Repeat("b", 3000)},
	}
	for _, c := range cases {
		a, b := FromString(c[0]), FromString(c[1])
		cat := a.Concat(b)
		if cat.Len() != a.Len()+b.Len() {
			t.Errorf("Concat length = %d, want %d", cat.Len(), a.Len()+b.Len())
		}
		if cat.String() != c[0]+c[1] {
			t.Error("Concat content mismatch")
		}
	}
}

func TestLineOffsets(t *testing.T) {
	// Triangle text exercises leaf boundaries at varying line lengths.
	var sb strings.Builder
	line := ""
	for i := 0; i < 300; i++ {
		sb.WriteString(line)
		sb.WriteByte('\n')
		line += "a"
	}
	input := sb.String()
	r := FromString(input)

	total := r.Measure(Lines)
	if total != 300 {
		t.Fatalf("Measure(Lines) = %d, want 300", total)
	}
	for n := 0; n <= total; n++ {
		off := r.OffsetOfLine(n)
		if got := r.LineOfOffset(off); got != n {
			t.Fatalf("LineOfOffset(OffsetOfLine(%d)) = %d", n, got)
		}
	}
	if r.OffsetOfLine(0) != 0 {
		t.Error("OffsetOfLine(0) should be 0")
	}
	if r.OffsetOfLine(total+1) != r.Len() {
		t.Error("OffsetOfLine(newline count + 1) should be the rope length")
	}

	defer func() {
		if recover() == nil {
			t.Error("OffsetOfLine beyond last line + 1 should panic")
		}
	}()
	r.OffsetOfLine(total + 2)
}

func TestLineOfOffsetMatchesNaive(t *testing.T) {
	input := strings.Repeat("lorem ipsum\ndolor sit amet\n", 300)
	r := FromString(input)
	for off := 0; off <= len(input); off += 97 {
		want := strings.Count(input[:off], "\n")
		if got := r.LineOfOffset(off); got != want {
			t.Fatalf("LineOfOffset(%d) = %d, want %d", off, got, want)
		}
	}
}

func TestUTF16Measure(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"abc", 3},
		{"é", 1},
		{"世界", 2},
		{"🌍", 2}, // surrogate pair
		{"a🌍b", 4},
	}
	for _, tt := range tests {
		r := FromString(tt.input)
		if got := r.Measure(UTF16); got != tt.want {
			t.Errorf("Measure(UTF16) of %q = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestConvertMetrics(t *testing.T) {
	r := FromString("a🌍b\ncd")
	// UTF-8: a=1, 🌍=4, b=1, \n=1, c=1, d=1
	if got := r.ConvertMetrics(Bytes, UTF16, 5); got != 3 {
		t.Errorf("bytes 5 -> utf16 = %d, want 3", got)
	}
	if got := r.ConvertMetrics(UTF16, Bytes, 3); got != 5 {
		t.Errorf("utf16 3 -> bytes = %d, want 5", got)
	}
	if got := r.ConvertMetrics(Lines, Bytes, 1); got != 7 {
		t.Errorf("line 1 -> bytes = %d, want 7", got)
	}
	if got := r.ConvertMetrics(Bytes, Lines, r.Len()); got != 1 {
		t.Errorf("bytes len -> lines = %d, want 1", got)
	}
}

func TestByteAt(t *testing.T) {
	input := strings.Repeat("0123456789", 500)
	r := FromString(input)
	for _, off := range []int{0, 1, 999, 2500, 4999} {
		b, ok := r.ByteAt(off)
		if !ok || b != input[off] {
			t.Errorf("ByteAt(%d) = %q, %v; want %q", off, b, ok, input[off])
		}
	}
	if _, ok := r.ByteAt(5000); ok {
		t.Error("ByteAt past end should report false")
	}
}

func TestCodepointNavigation(t *testing.T) {
	r := FromString("a世b")
	// offsets: a=0, 世=1..3, b=4
	if off, ok := r.NextCodepointOffset(0); !ok || off != 1 {
		t.Errorf("NextCodepointOffset(0) = %d, %v", off, ok)
	}
	if off, ok := r.NextCodepointOffset(1); !ok || off != 4 {
		t.Errorf("NextCodepointOffset(1) = %d, %v", off, ok)
	}
	if off, ok := r.PrevCodepointOffset(4); !ok || off != 1 {
		t.Errorf("PrevCodepointOffset(4) = %d, %v", off, ok)
	}
	if off, ok := r.PrevCodepointOffset(1); !ok || off != 0 {
		t.Errorf("PrevCodepointOffset(1) = %d, %v", off, ok)
	}
	if _, ok := r.PrevCodepointOffset(0); ok {
		t.Error("PrevCodepointOffset(0) should report false")
	}
	if _, ok := r.NextCodepointOffset(5); ok {
		t.Error("NextCodepointOffset at end should report false")
	}
	if !r.IsCodepointBoundary(0) || !r.IsCodepointBoundary(4) || r.IsCodepointBoundary(2) {
		t.Error("IsCodepointBoundary misreports")
	}
}

func TestGraphemeNavigation(t *testing.T) {
	// é as e + combining acute, then a regional-indicator flag pair.
	s := "éx\U0001F1E9\U0001F1EAy"
	r := FromString(s)
	boundaries := []int{0, 3, 4, 12, 13}
	for i := 0; i+1 < len(boundaries); i++ {
		off, ok := r.NextGraphemeOffset(boundaries[i])
		if !ok || off != boundaries[i+1] {
			t.Errorf("NextGraphemeOffset(%d) = %d, %v; want %d", boundaries[i], off, ok, boundaries[i+1])
		}
	}
	for i := len(boundaries) - 1; i > 0; i-- {
		off, ok := r.PrevGraphemeOffset(boundaries[i])
		if !ok || off != boundaries[i-1] {
			t.Errorf("PrevGraphemeOffset(%d) = %d, %v; want %d", boundaries[i], off, ok, boundaries[i-1])
		}
	}
	if _, ok := r.PrevGraphemeOffset(0); ok {
		t.Error("PrevGraphemeOffset(0) should report false")
	}
	if _, ok := r.NextGraphemeOffset(r.Len()); ok {
		t.Error("NextGraphemeOffset at end should report false")
	}
}

func TestEquals(t *testing.T) {
	long := strings.Repeat("hello world\n", 500)
	a := FromString(long)
	// Build the same content with different structure.
	b := FromString(long[:3000]).Concat(FromString(long[3000:]))
	if !a.Equals(b) {
		t.Error("structurally different ropes with equal content should be Equal")
	}
	if a.Equals(FromString(long[:len(long)-1])) {
		t.Error("different lengths should not be Equal")
	}
	c := FromString(strings.Replace(long, "hello", "jello", 1))
	if a.Equals(c) {
		t.Error("different content should not be Equal")
	}
}

func TestLinesIterators(t *testing.T) {
	collectRaw := func(s string) []string {
		var out []string
		it := FromString(s).LinesRaw(0, len(s))
		for it.Next() {
			out = append(out, it.Line())
		}
		return out
	}
	collect := func(s string) []string {
		var out []string
		it := FromString(s).Lines(0, len(s))
		for it.Next() {
			out = append(out, it.Line())
		}
		return out
	}
	eq := func(a, b []string) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	if !eq(collectRaw("a\nb\nc"), []string{"a\n", "b\n", "c"}) {
		t.Errorf("lines_raw small: %v", collectRaw("a\nb\nc"))
	}
	if !eq(collectRaw("a\nb\n"), []string{"a\n", "b\n"}) {
		t.Errorf("lines_raw trailing: %v", collectRaw("a\nb\n"))
	}
	if !eq(collectRaw("\n"), []string{"\n"}) {
		t.Errorf("lines_raw newline only: %v", collectRaw("\n"))
	}
	if len(collectRaw("")) != 0 {
		t.Error("lines_raw of empty should be empty")
	}

	if !eq(collect("a\nb\nc"), []string{"a", "b", "c"}) {
		t.Errorf("lines small: %v", collect("a\nb\nc"))
	}
	if !eq(collect("a\r\nb\r\nc"), []string{"a", "b", "c"}) {
		t.Errorf("lines crlf: %v", collect("a\r\nb\r\nc"))
	}
	if !eq(collect("a\rb\rc"), []string{"a\rb\rc"}) {
		t.Errorf("lines lone cr: %v", collect("a\rb\rc"))
	}
	if !eq(collect("\n"), []string{""}) {
		t.Errorf("lines newline only: %v", collect("\n"))
	}

	// Long input spanning many leaves.
	long := strings.Repeat("lorem ipsum dolor sit amet\n", 500)
	got := collect(long)
	want := strings.Split(strings.TrimSuffix(long, "\n"), "\n")
	if !eq(got, want) {
		t.Errorf("long lines mismatch: got %d lines, want %d", len(got), len(want))
	}
}

func TestIterChunks(t *testing.T) {
	input := strings.Repeat("0123456789", 1000)
	r := FromString(input)
	var sb strings.Builder
	it := r.IterChunks(15, 9987)
	for it.Next() {
		sb.WriteString(it.Chunk())
	}
	if sb.String() != input[15:9987] {
		t.Error("chunk iteration over range mismatch")
	}
}

func TestHeightAndBalance(t *testing.T) {
	input := strings.Repeat("a", 1<<17)
	r := FromString(input)
	if r.Height() > 5 {
		t.Errorf("tree unexpectedly deep: height %d", r.Height())
	}
	// Repeated edits keep the tree usable.
	for i := 0; i < 100; i++ {
		r = r.Insert(r.Len()/2, "hello")
	}
	if r.Len() != len(input)+500 {
		t.Errorf("length after edits = %d", r.Len())
	}
}

func TestSummaryMonoid(t *testing.T) {
	a := computeSummary("hello\nworld 🌍")
	b := computeSummary("\nsecond\n")
	sum := a.Add(b)
	both := computeSummary("hello\nworld 🌍" + "\nsecond\n")
	if sum != both {
		t.Errorf("summary Add mismatch: %+v != %+v", sum, both)
	}
}
