package engine

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

// ============================================================================
// Parsing Benchmarks
// ============================================================================

// BenchmarkParseDelimitedText parses a mid-sized export with mixed columns.
func BenchmarkParseDelimitedText(b *testing.B) {
	text := generateDelimited(1000, ",")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseDelimitedText(text, ",")
	}
}

// BenchmarkParseDelimitedText_Large is the 10MB-upload scale case.
func BenchmarkParseDelimitedText_Large(b *testing.B) {
	text := generateDelimited(50000, ",")
	b.SetBytes(int64(len(text)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseDelimitedText(text, ",")
	}
}

func BenchmarkParseDelimitedText_Tab(b *testing.B) {
	text := generateDelimited(1000, "\t")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseDelimitedText(text, "\t")
	}
}

// BenchmarkParseStructuredRecords parses an array of flat objects.
func BenchmarkParseStructuredRecords(b *testing.B) {
	text := generateStructured(1000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseStructuredRecords(text); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Analysis Benchmarks
// ============================================================================

func BenchmarkComputeAnalysis(b *testing.B) {
	t := ParseDelimitedText(generateDelimited(1000, ","), ",")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ComputeAnalysis(t)
	}
}

func BenchmarkComputeAnalysis_Large(b *testing.B) {
	t := ParseDelimitedText(generateDelimited(50000, ","), ",")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ComputeAnalysis(t)
	}
}

func BenchmarkIngestParallel(b *testing.B) {
	payload := []byte(generateDelimited(1000, ","))
	hint := Hint{Format: FormatDelimited}

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := Ingest(payload, hint); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// ============================================================================
// Helper Functions
// ============================================================================

// generateDelimited returns a header plus rows lines with numeric, text and
// boolean columns.
func generateDelimited(rows int, delim string) string {
	var sb strings.Builder
	sb.WriteString(strings.Join([]string{"id", "name", "region", "units", "price", "active"}, delim))
	sb.WriteByte('\n')
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&sb, "%d%sitem-%d%s%s%s%d%s%.2f%s%t\n",
			i, delim,
			i, delim,
			[]string{"north", "south", "east", "west"}[i%4], delim,
			(i*37)%500, delim,
			float64(i%1000)/7, delim,
			i%3 == 0,
		)
	}
	return sb.String()
}

func generateStructured(rows int) string {
	records := make([]map[string]any, rows)
	for i := range records {
		records[i] = map[string]any{
			"name":     fmt.Sprintf("Product %d", i),
			"sales":    (i * 37) % 2000,
			"revenue":  float64(i) * 12.5,
			"category": []string{"Electronics", "Clothing", "Food"}[i%3],
			"discount": nil,
		}
	}
	data, _ := json.Marshal(records)
	return string(data)
}
