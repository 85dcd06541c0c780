package model

import "time"

// Review is a customer review in the `reviews` table. The author's
// username and profile picture are denormalized into the row at submission
// time so the review keeps showing the name the author had when writing
// it. Reviews are immutable once created.
type Review struct {
	ID         uint64    `json:"id"`          // reviews.id
	UserID     uint64    `json:"user_id"`     // reviews.user_id
	Name       string    `json:"name"`        // reviews.name (snapshot of username)
	ProfilePic string    `json:"profile_pic"` // reviews.profile_pic (snapshot)
	Rating     uint32    `json:"rating"`      // reviews.rating
	Comment    string    `json:"comment"`     // reviews.comment
	CreatedAt  time.Time `json:"created_at"`  // reviews.created_at
}
