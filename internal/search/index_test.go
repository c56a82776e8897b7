package search

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/course-companion/backend/internal/apperr"
	"github.com/course-companion/backend/internal/models"
)

type stubEmbedder struct {
	vec []float64
	err error
}

func (s stubEmbedder) Embed(_ context.Context, _ string) ([]float64, error) {
	return s.vec, s.err
}

func testChapters() []models.Chapter {
	return []models.Chapter{
		{ID: 1, CourseID: 1, ChapterNumber: 1, Title: "Goroutines",
			Summary: "Concurrency basics", BodyText: "A goroutine is a lightweight thread managed by the runtime. Goroutines share memory."},
		{ID: 2, CourseID: 1, ChapterNumber: 2, Title: "Channels",
			Summary: "Typed conduits", BodyText: "Channels connect goroutines. Send and receive block until both sides are ready."},
		{ID: 3, CourseID: 1, ChapterNumber: 3, Title: "Error Handling",
			Summary: "Errors are values", BodyText: "Errors are returned, not thrown. Wrap errors with context for the caller."},
	}
}

func testEmbeddings() map[int64][]float64 {
	return map[int64][]float64{
		1: {1, 0, 0},
		2: {0.9, 0.1, 0},
		3: {0, 0, 1},
	}
}

func newTestIndex(embedder Embedder) *Index {
	return NewIndex(testChapters(), testEmbeddings(), embedder, 0.6, 0.4, 20)
}

func TestSearchKeyword(t *testing.T) {
	idx := newTestIndex(nil)

	resp, err := idx.Search(context.Background(), "goroutine", models.SearchKeyword, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total == 0 {
		t.Fatal("no hits for term present in corpus")
	}
	if resp.Hits[0].ChapterID != 1 {
		t.Errorf("top hit = chapter %d, want 1", resp.Hits[0].ChapterID)
	}
	for _, hit := range resp.Hits {
		if hit.Score <= 0 {
			t.Errorf("chapter %d returned with score %v", hit.ChapterID, hit.Score)
		}
		if hit.Excerpt == "" {
			t.Errorf("chapter %d hit has empty excerpt", hit.ChapterID)
		}
	}
}

func TestSearchKeywordSubstring(t *testing.T) {
	// Keyword matching is substring matching: a term inside a longer word
	// still counts.
	idx := newTestIndex(nil)

	resp, err := idx.Search(context.Background(), "routine", models.SearchKeyword, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total == 0 {
		t.Fatal("substring query returned no hits against corpus containing \"goroutine\"")
	}
	if resp.Hits[0].ChapterID != 1 {
		t.Errorf("top hit = chapter %d, want 1 (most occurrences)", resp.Hits[0].ChapterID)
	}
}

func TestKeywordScoreCapped(t *testing.T) {
	// Twelve occurrences of the term; the per-term contribution caps at 1.
	d := document{text: strings.Repeat("cache ", 12)}
	if got := d.keywordScore([]string{"cache"}); got != 1.0 {
		t.Errorf("keywordScore = %v, want capped at 1.0", got)
	}
}

func TestSearchNoMatches(t *testing.T) {
	idx := newTestIndex(nil)

	resp, err := idx.Search(context.Background(), "blockchain", models.SearchKeyword, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 0 || len(resp.Hits) != 0 {
		t.Errorf("got %d hits for absent term, want 0", resp.Total)
	}
}

func TestSearchSemantic(t *testing.T) {
	idx := newTestIndex(stubEmbedder{vec: []float64{1, 0, 0}})

	resp, err := idx.Search(context.Background(), "concurrency", models.SearchSemantic, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Mode != models.SearchSemantic {
		t.Errorf("Mode = %q, want semantic", resp.Mode)
	}
	if resp.Hits[0].ChapterID != 1 {
		t.Errorf("top hit = chapter %d, want 1 (identical vector)", resp.Hits[0].ChapterID)
	}
	if got := resp.Hits[0].Score; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("identical-vector score = %v, want 1.0", got)
	}
}

func TestSearchHybridDeterministic(t *testing.T) {
	idx := newTestIndex(stubEmbedder{vec: []float64{0.5, 0.5, 0}})

	first, err := idx.Search(context.Background(), "goroutines and channels", models.SearchHybrid, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := idx.Search(context.Background(), "goroutines and channels", models.SearchHybrid, 0)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first:\n%+v\nvs\n%+v", i, again, first)
		}
	}
}

func TestSearchDegradesWithoutEmbedder(t *testing.T) {
	idx := newTestIndex(nil)

	resp, err := idx.Search(context.Background(), "channels", models.SearchHybrid, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Mode != models.SearchKeyword {
		t.Errorf("Mode = %q, want downgrade to keyword", resp.Mode)
	}
}

func TestSearchDegradesOnEmbedderError(t *testing.T) {
	idx := newTestIndex(stubEmbedder{err: errors.New("upstream unavailable")})

	resp, err := idx.Search(context.Background(), "channels", models.SearchSemantic, 0)
	if err != nil {
		t.Fatalf("Search should degrade, got error: %v", err)
	}
	if resp.Mode != models.SearchKeyword {
		t.Errorf("Mode = %q, want downgrade to keyword", resp.Mode)
	}
}

func TestSearchValidation(t *testing.T) {
	idx := newTestIndex(nil)

	if _, err := idx.Search(context.Background(), "   ", models.SearchKeyword, 0); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("empty query: err = %v, want validation error", err)
	}
	if _, err := idx.Search(context.Background(), "go", "fuzzy", 0); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("bad mode: err = %v, want validation error", err)
	}
}

func TestSearchLimit(t *testing.T) {
	idx := newTestIndex(nil)

	resp, err := idx.Search(context.Background(), "goroutines channels errors", models.SearchKeyword, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Hits) != 1 {
		t.Errorf("len(Hits) = %d, want 1", len(resp.Hits))
	}
	if resp.Total < len(resp.Hits) {
		t.Errorf("Total = %d is below returned hits", resp.Total)
	}
}

func TestSearchTieBreakByChapterNumber(t *testing.T) {
	chapters := []models.Chapter{
		{ID: 10, CourseID: 1, ChapterNumber: 4, Title: "Maps", BodyText: "maps store pairs"},
		{ID: 11, CourseID: 1, ChapterNumber: 2, Title: "Maps", BodyText: "maps store pairs"},
	}
	idx := NewIndex(chapters, nil, nil, 0.6, 0.4, 20)

	resp, err := idx.Search(context.Background(), "maps", models.SearchKeyword, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Hits) != 2 {
		t.Fatalf("len(Hits) = %d, want 2", len(resp.Hits))
	}
	if resp.Hits[0].ChapterNumber != 2 {
		t.Errorf("tied scores: first hit chapter number = %d, want 2", resp.Hits[0].ChapterNumber)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"length mismatch", []float64{1, 0}, []float64{1, 0, 0}, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExcerptWindow(t *testing.T) {
	ch := testChapters()[1]
	got := excerpt(ch, []string{"receive"})
	if got == "" {
		t.Fatal("empty excerpt")
	}
	if want := "receive"; !strings.Contains(strings.ToLower(got), want) {
		t.Errorf("excerpt %q does not contain %q", got, want)
	}

	// No term in the body: falls back to the summary.
	got = excerpt(ch, []string{"zzz"})
	if got != ch.Summary {
		t.Errorf("fallback excerpt = %q, want summary %q", got, ch.Summary)
	}
}

func TestExcerptRuneBoundaries(t *testing.T) {
	// A body of multi-byte runes with the match far enough in that both
	// window edges land mid-rune without snapping.
	ch := models.Chapter{
		BodyText: strings.Repeat("é", 100) + " goroutine " + strings.Repeat("ü", 100),
	}
	got := excerpt(ch, []string{"goroutine"})
	if !utf8.ValidString(got) {
		t.Errorf("excerpt split a rune: %q", got)
	}
	if !strings.Contains(got, "goroutine") {
		t.Errorf("excerpt %q does not contain the match", got)
	}

	// Fallback truncation must not split runes either; the leading ASCII
	// byte pushes the cut point into the middle of a rune.
	long := models.Chapter{Summary: "A" + strings.Repeat("日本語", 200)}
	if got := excerpt(long, []string{"zzz"}); !utf8.ValidString(got) {
		t.Errorf("truncated excerpt split a rune: %q", got)
	}
}
