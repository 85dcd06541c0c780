package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-reservation/internal/model"
	"github.com/iliyamo/car-rental-reservation/internal/repository"
)

// reviewsPerPage is the fixed page size of the paginated review listing.
const reviewsPerPage = 5

// randomReviewCount is how many reviews the showcase endpoint returns.
const randomReviewCount = 3

// ReviewHandler serves customer reviews. Submission snapshots the
// author's current username and avatar into the review row.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Users   *repository.UserRepo
}

func NewReviewHandler(reviews *repository.ReviewRepo, users *repository.UserRepo) *ReviewHandler {
	if reviews == nil || users == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: reviews, Users: users}
}

type createReviewReq struct {
	Rating  uint32 `json:"rating"`
	Comment string `json:"comment"`
}

// Create stores a new review for the authenticated user.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	rev := model.Review{
		UserID:     uid,
		Name:       u.Username,
		ProfilePic: u.ProfilePicture,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := h.Reviews.Create(ctx, &rev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	return c.JSON(http.StatusCreated, rev)
}

// List returns reviews five per page via ?page=, or everything at once
// with ?all=true.
func (h *ReviewHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if c.QueryParam("all") == "true" {
		list, err := h.Reviews.ListAll(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, list)
	}

	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	list, err := h.Reviews.List(ctx, page, reviewsPerPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// Random returns three random reviews for the landing page.
func (h *ReviewHandler) Random(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Reviews.Random(ctx, randomReviewCount)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, list)
}
