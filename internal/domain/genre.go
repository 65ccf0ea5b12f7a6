package domain

// Genre is a category books are filed under. Engagement with a book feeds the
// recommendation points of every genre linked to it.
type Genre struct {
	Timestamps
	ID   string `json:"id"`
	Name string `json:"name"` // Display name: "Science Fiction"
	Slug string `json:"slug"` // Unique key: "science-fiction"
}

// Author is a person credited on a book.
type Author struct {
	Timestamps
	ID   string `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}
