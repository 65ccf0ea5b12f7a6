package domain

// Book is a catalogue entry. Genres and authors are associations, stored
// separately and referenced by ID.
type Book struct {
	Timestamps
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	NumberOfPages int      `json:"number_of_pages,omitempty"`
	GenreIDs      []string `json:"genre_ids"`
	AuthorIDs     []string `json:"author_ids"`
}
