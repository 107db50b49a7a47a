package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// BookID is the server-assigned book identifier. The backend may encode it as a
// JSON number or string; it is treated as opaque text on this side.
type BookID string

func (id *BookID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("book id: %w", err)
		}
		*id = BookID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("book id: %w", err)
	}
	*id = BookID(n.String())
	return nil
}

func (id BookID) String() string {
	return string(id)
}

type Genre string

const (
	GenreFiction    Genre = "Fiction"
	GenreNonFiction Genre = "Non-Fiction"
	GenreMystery    Genre = "Mystery"
	GenreFantasy    Genre = "Fantasy"
	GenreRomance    Genre = "Romance"
	GenreSciFi      Genre = "Sci-Fi"
	GenreOthers     Genre = "Others"
)

// Genres lists the selectable genres in display order.
var Genres = []Genre{
	GenreFiction,
	GenreNonFiction,
	GenreMystery,
	GenreFantasy,
	GenreRomance,
	GenreSciFi,
	GenreOthers,
}

// Field length limits enforced before a book is submitted.
const (
	MaxTitleLength  = 100
	MaxAuthorLength = 50
	ISBNLength      = 13
	MinRating       = 1
	MaxRating       = 5
)

// Book is a catalog record as served by the backend.
type Book struct {
	ID              BookID `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           Genre  `json:"genre"`
	PublicationDate string `json:"publicationDate"`
	ISBN            string `json:"isbn"`
	Rating          int    `json:"rating"`
	ImgURL          string `json:"imgUrl,omitempty"`
}

// Field returns the displayed value of a named field, or false for an unknown name.
func (b Book) Field(name string) (string, bool) {
	switch name {
	case "id":
		return b.ID.String(), true
	case "title":
		return b.Title, true
	case "author":
		return b.Author, true
	case "genre":
		return string(b.Genre), true
	case "publicationDate":
		return b.PublicationDate, true
	case "isbn":
		return b.ISBN, true
	case "rating":
		return strconv.Itoa(b.Rating), true
	case "imgUrl":
		return b.ImgURL, true
	default:
		return "", false
	}
}

// Draft is the creation payload, sent as the JSON "book" part of the multipart request.
type Draft struct {
	Title           string `json:"title" validate:"required,utf16max=100"`
	Author          string `json:"author" validate:"required,utf16max=50"`
	PublicationDate string `json:"publicationDate" validate:"required,datetime=2006-01-02"`
	ISBN            string `json:"isbn" validate:"isbn13digits"`
	Genre           Genre  `json:"genre" validate:"required,genre"`
	Rating          int    `json:"rating" validate:"min=1,max=5"`
}

// EmptyDraft is the state of a freshly reset creation form.
func EmptyDraft() Draft {
	return Draft{Rating: MinRating}
}

// CoverUpload is an optional cover image attached to a new book.
type CoverUpload struct {
	Filename string
	Data     []byte
}
