package models

import (
	"time"

	"github.com/yatube/yatube-services/internal/paginator"
)

// Post is a single authored text item, optionally tagged with a Group.
type Post struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Author    User      `json:"author"`
	Group     *Group    `json:"group,omitempty"`
}

// PageResponse is the listing payload shared by the index, group and
// profile pages.
type PageResponse struct {
	Posts              []Post `json:"posts"`
	Number             int    `json:"number"`
	NumPages           int    `json:"num_pages"`
	Count              int    `json:"count"`
	HasPrevious        bool   `json:"has_previous"`
	HasNext            bool   `json:"has_next"`
	PreviousPageNumber int    `json:"previous_page_number,omitempty"`
	NextPageNumber     int    `json:"next_page_number,omitempty"`
}

// NewPageResponse builds the listing payload for a window of posts.
func NewPageResponse(posts []Post, w paginator.Window) PageResponse {
	if posts == nil {
		posts = []Post{}
	}
	return PageResponse{
		Posts:              posts,
		Number:             w.Number,
		NumPages:           w.NumPages,
		Count:              w.Count,
		HasPrevious:        w.HasPrevious(),
		HasNext:            w.HasNext(),
		PreviousPageNumber: w.PreviousPageNumber(),
		NextPageNumber:     w.NextPageNumber(),
	}
}

// IndexResponse is the global listing.
type IndexResponse struct {
	Page PageResponse `json:"page_obj"`
}

// GroupListResponse is a listing filtered by group.
type GroupListResponse struct {
	Group Group        `json:"group"`
	Page  PageResponse `json:"page_obj"`
}

// ProfileResponse is a listing filtered by author.
type ProfileResponse struct {
	Author User         `json:"author"`
	Page   PageResponse `json:"page_obj"`
}

// PostDetailResponse is a single post with its author's post count.
type PostDetailResponse struct {
	Post       Post `json:"post"`
	PostsCount int  `json:"posts_count"`
}
