package domain

// Relation names one of the many-to-many associations the core reconciles.
type Relation string

// Association kinds.
const (
	RelationBookGenre      Relation = "book_genre"
	RelationBookAuthor     Relation = "book_author"
	RelationPlaylistBook   Relation = "playlist_book"
	RelationDiscussionBook Relation = "discussion_book"
)

// Members returns the plural noun for the member side of the relation,
// used in caller-facing messages.
func (r Relation) Members() string {
	switch r {
	case RelationBookGenre:
		return "genres"
	case RelationBookAuthor:
		return "authors"
	case RelationPlaylistBook, RelationDiscussionBook:
		return "books"
	default:
		return "members"
	}
}

// Ref is an identity-only reference to a member of a relation.
// It is never resolved to a full record by the core; the store attaches it
// to an existing row without creating a new one.
type Ref struct {
	Relation Relation `json:"relation"`
	ID       string   `json:"id"`
}

// RelationFor returns the book relation of a post kind that carries a book set.
func RelationFor(kind PostKind) (Relation, bool) {
	switch kind {
	case PostKindPlaylist:
		return RelationPlaylistBook, true
	case PostKindDiscussion:
		return RelationDiscussionBook, true
	default:
		return "", false
	}
}
