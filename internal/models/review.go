package models

import "time"

// Review is a per-(user, content) rating with an optional comment. A user has
// at most one review per content id; submits upsert.
type Review struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	ContentID int       `json:"movieId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewWithUser is a review joined with the reviewer's username for listing.
type ReviewWithUser struct {
	Review
	Username string `json:"username"`
}

// ReviewRequest is the submit payload.
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewPage is the paginated listing response. AverageRating is the mean of
// the returned page only, rounded to one decimal.
type ReviewPage struct {
	Reviews       []ReviewWithUser `json:"reviews"`
	Pagination    Pagination       `json:"pagination"`
	AverageRating string           `json:"averageRating"`
}

// Pagination describes a page of results.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
