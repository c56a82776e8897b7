package models

// Course metadata consumed from the content collaborator. CRUD for courses
// and chapters lives outside this core; these rows are read-only here.
type Course struct {
	ID            int64  `json:"id"`
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	TotalChapters int    `json:"total_chapters"`
	IsPublished   bool   `json:"is_published"`
}

// Chapter metadata. BodyText is the searchable text of the chapter; the
// underlying content bytes are served by the storage collaborator via signed
// URLs and never pass through this core.
type Chapter struct {
	ID            int64  `json:"id"`
	CourseID      int64  `json:"course_id"`
	ChapterNumber int    `json:"chapter_number"`
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	BodyText      string `json:"-"`
	TierRequired  Tier   `json:"tier_required"`
	IsPublished   bool   `json:"is_published"`
}
