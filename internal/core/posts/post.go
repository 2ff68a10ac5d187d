package posts

import (
	"encoding/json"
	"time"
)

// Reactions holds the like/dislike counters of a post
type Reactions struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// Post represents a post in the remote collection.
// Identity is ID: two Post values with the same ID are the same entity, possibly at different versions.
type Post struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	Reactions Reactions `json:"reactions"`
	ID        int       `json:"id"`
	Views     int       `json:"views"`
	UserID    int       `json:"userId"`
}

// Clone returns a copy of the post that shares no slices with the original
func (p Post) Clone() Post {
	if p.Tags != nil {
		tags := make([]string, len(p.Tags))
		copy(tags, p.Tags)
		p.Tags = tags
	}
	return p
}

// Page is the normalized response of the list and search endpoints
type Page struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}

// CreatePostInput is the body of POST /posts/add
type CreatePostInput struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Tags   []string `json:"tags"`
	UserID int      `json:"userId"`
}

// UpdatePostInput is the partial body of PUT /posts/{id}.
// Nil fields are left unchanged by the server. A nil Tags slice means "unchanged";
// a non-nil empty slice clears the tags.
type UpdatePostInput struct {
	Title *string  `json:"title,omitempty"`
	Body  *string  `json:"body,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all
func (in UpdatePostInput) IsEmpty() bool {
	return in.Title == nil && in.Body == nil && in.Tags == nil
}

// MarshalJSON writes tags whenever Tags is non-nil, so an empty slice reaches the server as [].
func (in UpdatePostInput) MarshalJSON() ([]byte, error) {
	type wire struct {
		Title *string   `json:"title,omitempty"`
		Body  *string   `json:"body,omitempty"`
		Tags  *[]string `json:"tags,omitempty"`
	}
	w := wire{Title: in.Title, Body: in.Body}
	if in.Tags != nil {
		w.Tags = &in.Tags
	}
	return json.Marshal(w)
}

// DeletedPost is the server's confirmation of a deletion: the deleted entity echoed back
type DeletedPost struct {
	DeletedOn time.Time `json:"deletedOn"`
	Post
	IsDeleted bool `json:"isDeleted"`
}

// Credentials is the body of POST /auth/login
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthUser is the login response: the user's profile plus the access token
type AuthUser struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Gender      string `json:"gender"`
	Image       string `json:"image"`
	AccessToken string `json:"accessToken"`
	ID          int    `json:"id"`
}

// NormalizeCreated fills in the fields a create response may leave out.
// Absent reactions and views are already zero values; absent tags become an empty slice
// so that callers can range over them and re-encode them as [] rather than null.
func NormalizeCreated(p Post) Post {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Reactions.Likes < 0 {
		p.Reactions.Likes = 0
	}
	if p.Reactions.Dislikes < 0 {
		p.Reactions.Dislikes = 0
	}
	if p.Views < 0 {
		p.Views = 0
	}
	return p
}
