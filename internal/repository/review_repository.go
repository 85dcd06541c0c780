package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/car-rental-reservation/internal/model"
)

// ReviewRepo persists customer reviews. Reviews are append-only.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

const reviewColumns = "id,user_id,name,profile_pic,rating,comment,created_at"

func scanReview(row interface{ Scan(...any) error }) (model.Review, error) {
	var (
		rev     model.Review
		comment sql.NullString
	)
	err := row.Scan(&rev.ID, &rev.UserID, &rev.Name, &rev.ProfilePic,
		&rev.Rating, &comment, &rev.CreatedAt)
	rev.Comment = comment.String
	return rev, err
}

// Create inserts a review and fills the generated ID.
func (r *ReviewRepo) Create(ctx context.Context, rev *model.Review) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (user_id, name, profile_pic, rating, comment) VALUES (?,?,?,?,?)",
		rev.UserID, rev.Name, rev.ProfilePic, rev.Rating, rev.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)
	return nil
}

// List returns one page of reviews, newest first. Page numbers start at 1.
func (r *ReviewRepo) List(ctx context.Context, page, perPage int) ([]model.Review, error) {
	if page < 1 {
		page = 1
	}
	return r.queryReviews(ctx,
		"SELECT "+reviewColumns+" FROM reviews ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		perPage, (page-1)*perPage)
}

// ListAll returns every review, newest first.
func (r *ReviewRepo) ListAll(ctx context.Context) ([]model.Review, error) {
	return r.queryReviews(ctx,
		"SELECT "+reviewColumns+" FROM reviews ORDER BY created_at DESC, id DESC")
}

// Random returns up to n reviews sampled randomly, for the landing page
// carousel. Stale snapshots fall back to the author's current username and
// avatar via the join.
func (r *ReviewRepo) Random(ctx context.Context, n int) ([]model.Review, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT rv.id, rv.user_id,
		        IFNULL(IF(rv.name='', u.username, rv.name), ''),
		        IFNULL(IF(rv.profile_pic='', u.profile_picture, rv.profile_pic), ''),
		        rv.rating, rv.comment, rv.created_at
		 FROM reviews rv
		 LEFT JOIN users u ON u.id = rv.user_id
		 ORDER BY RAND() LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := make([]model.Review, 0)
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepo) queryReviews(ctx context.Context, query string, args ...any) ([]model.Review, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := make([]model.Review, 0)
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
