package models

type SearchMode string

const (
	SearchKeyword  SearchMode = "keyword"
	SearchSemantic SearchMode = "semantic"
	SearchHybrid   SearchMode = "hybrid"
)

var ValidSearchModes = map[SearchMode]bool{
	SearchKeyword:  true,
	SearchSemantic: true,
	SearchHybrid:   true,
}

type SearchHit struct {
	ChapterID     int64   `json:"chapter_id"`
	ChapterNumber int     `json:"chapter_number"`
	ChapterTitle  string  `json:"chapter_title"`
	CourseID      int64   `json:"course_id"`
	Score         float64 `json:"score"`
	Excerpt       string  `json:"excerpt"`
}

type SearchResponse struct {
	Query string      `json:"query"`
	Mode  SearchMode  `json:"mode"`
	Hits  []SearchHit `json:"hits"`
	Total int         `json:"total"`
}
