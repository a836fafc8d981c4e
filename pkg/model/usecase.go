package model

// UseCase is an entry in the AI use-case library.
type UseCase struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Impact      string   `json:"impact,omitempty"`
	Effort      string   `json:"effort,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// UseCasePage is one page of the use-case library.
type UseCasePage struct {
	Items      []UseCase `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// ImportSummary is returned by the bulk use-case import endpoint.
type ImportSummary struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
