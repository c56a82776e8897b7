// Package search ranks published chapters against a query using keyword
// occurrence counts, frozen embeddings, or a weighted blend of both. The
// corpus is built once at startup and never mutated, so identical queries
// always return identical rankings.
package search

import (
	"context"
	"log"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/course-companion/backend/internal/apperr"
	"github.com/course-companion/backend/internal/catalog"
	"github.com/course-companion/backend/internal/models"
)

// Embedder turns a query string into the same vector space the stored
// chapter embeddings live in. It is an external collaborator; when nil, the
// index serves keyword-only results and downgrades semantic/hybrid requests.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

type document struct {
	chapter models.Chapter
	text    string // lowercased title + summary + body, for substring counting
	vector  []float64
}

type Index struct {
	docs           []document
	embedder       Embedder
	keywordWeight  float64
	semanticWeight float64
	maxResults     int
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// NewIndex builds the in-memory corpus from the published chapters and the
// frozen embedding table. Chapters without an embedding still participate in
// keyword ranking; they simply score zero on the semantic side.
func NewIndex(chapters []models.Chapter, embeddings map[int64][]float64, embedder Embedder,
	keywordWeight, semanticWeight float64, maxResults int) *Index {

	idx := &Index{
		docs:           make([]document, 0, len(chapters)),
		embedder:       embedder,
		keywordWeight:  keywordWeight,
		semanticWeight: semanticWeight,
		maxResults:     maxResults,
	}
	for _, ch := range chapters {
		idx.docs = append(idx.docs, document{
			chapter: ch,
			text:    strings.ToLower(ch.Title + " " + ch.Summary + " " + ch.BodyText),
			vector:  embeddings[ch.ID],
		})
	}
	log.Printf("[search] index built: %d chapters, %d embeddings", len(chapters), len(embeddings))
	return idx
}

// Search runs the query in the requested mode, capped at limit hits. A
// semantic or hybrid request degrades to keyword ranking when no embedder is
// wired or the embedder fails; degradation is logged, never an error.
func (idx *Index) Search(ctx context.Context, query string, mode models.SearchMode, limit int) (*models.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("query must not be empty")
	}
	if !models.ValidSearchModes[mode] {
		return nil, apperr.Validation("mode must be one of: keyword, semantic, hybrid")
	}
	if limit <= 0 || limit > idx.maxResults {
		limit = idx.maxResults
	}

	effective := mode
	var queryVec []float64
	if mode != models.SearchKeyword {
		if idx.embedder == nil {
			log.Printf("[search] no embedder configured, downgrading %q to keyword", mode)
			effective = models.SearchKeyword
		} else {
			vec, err := idx.embedder.Embed(ctx, query)
			if err != nil {
				log.Printf("[search] embedder failed, downgrading %q to keyword: %v", mode, err)
				effective = models.SearchKeyword
			} else {
				queryVec = vec
			}
		}
	}

	terms := tokenize(query)
	hits := make([]models.SearchHit, 0, len(idx.docs))
	for _, doc := range idx.docs {
		var score float64
		switch effective {
		case models.SearchKeyword:
			score = doc.keywordScore(terms)
		case models.SearchSemantic:
			score = cosine(queryVec, doc.vector)
		case models.SearchHybrid:
			score = idx.keywordWeight*doc.keywordScore(terms) +
				idx.semanticWeight*cosine(queryVec, doc.vector)
		}
		if score <= 0 {
			continue
		}
		hits = append(hits, models.SearchHit{
			ChapterID:     doc.chapter.ID,
			ChapterNumber: doc.chapter.ChapterNumber,
			ChapterTitle:  doc.chapter.Title,
			CourseID:      doc.chapter.CourseID,
			Score:         score,
			Excerpt:       excerpt(doc.chapter, terms),
		})
	}

	// Score descending; equal scores break by chapter number ascending so the
	// ordering is total and repeat queries agree.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChapterNumber < hits[j].ChapterNumber
	})

	total := len(hits)
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return &models.SearchResponse{
		Query: query,
		Mode:  effective,
		Hits:  hits,
		Total: total,
	}, nil
}

// keywordScore counts case-insensitive substring occurrences of each query
// term in the chapter text. Each term's contribution is normalized and capped
// at 1 so a single repeated word cannot dominate the ranking.
func (d document) keywordScore(terms []string) float64 {
	if d.text == "" || len(terms) == 0 {
		return 0
	}
	var score float64
	for _, term := range terms {
		freq := float64(strings.Count(d.text, term)) / 10.0
		if freq > 1.0 {
			freq = 1.0
		}
		score += freq
	}
	return score / float64(len(terms))
}

func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

const excerptRadius = 120

// excerpt returns a text window around the first query-term occurrence in
// the chapter body, falling back to the summary and then the leading body
// text when no term matches.
func excerpt(ch models.Chapter, terms []string) string {
	body := ch.BodyText
	lower := strings.ToLower(body)
	pos := -1
	for _, term := range terms {
		if i := strings.Index(lower, term); i >= 0 && (pos < 0 || i < pos) {
			pos = i
		}
	}
	if pos < 0 {
		if ch.Summary != "" {
			return truncate(ch.Summary, 2*excerptRadius)
		}
		return truncate(body, 2*excerptRadius)
	}

	start := pos - excerptRadius
	if start < 0 {
		start = 0
	}
	end := pos + excerptRadius
	if end > len(body) {
		end = len(body)
	}
	// Byte offsets can land inside a multi-byte rune; snap inward.
	for start < len(body) && !utf8.RuneStart(body[start]) {
		start++
	}
	for end > start && end < len(body) && !utf8.RuneStart(body[end]) {
		end--
	}
	out := strings.TrimSpace(body[start:end])
	if start > 0 {
		out = "..." + out
	}
	if end < len(body) {
		out += "..."
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return strings.TrimSpace(s)
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return strings.TrimSpace(s[:n]) + "..."
}

// LoadIndex builds the startup corpus from the catalog in one pass.
func LoadIndex(ctx context.Context, cat *catalog.Store, embedder Embedder,
	keywordWeight, semanticWeight float64, maxResults int) (*Index, error) {

	chapters, err := cat.ListSearchChapters(ctx)
	if err != nil {
		return nil, err
	}
	embeddings, err := cat.LoadEmbeddings(ctx)
	if err != nil {
		return nil, err
	}
	return NewIndex(chapters, embeddings, embedder, keywordWeight, semanticWeight, maxResults), nil
}
