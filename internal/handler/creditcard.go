package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-reservation/internal/model"
	"github.com/iliyamo/car-rental-reservation/internal/repository"
	"github.com/iliyamo/car-rental-reservation/internal/utils"
)

// CreditCardHandler stores at most one payment card per user. Card number
// and CVV are encrypted before they reach the repository and decrypted
// only when the owner reads the card back.
type CreditCardHandler struct {
	Cards  *repository.CreditCardRepo
	Cipher *utils.CardCipher
}

func NewCreditCardHandler(cards *repository.CreditCardRepo, cipher *utils.CardCipher) *CreditCardHandler {
	if cards == nil || cipher == nil {
		panic("nil dependency passed to NewCreditCardHandler")
	}
	return &CreditCardHandler{Cards: cards, Cipher: cipher}
}

type createCardReq struct {
	CardHolderName string `json:"card_holder_name"`
	CardNumber     string `json:"card_number"`
	ExpiryMonth    uint32 `json:"expiry_month"`
	ExpiryYear     uint32 `json:"expiry_year"`
	CVV            string `json:"cvv"`
}

type cardResp struct {
	ID             uint64    `json:"id"`
	CardHolderName string    `json:"card_holder_name"`
	CardNumber     string    `json:"card_number"`
	ExpiryMonth    uint32    `json:"expiry_month"`
	ExpiryYear     uint32    `json:"expiry_year"`
	CVV            string    `json:"cvv"`
	CardType       string    `json:"card_type"`
	CreatedAt      time.Time `json:"created_at"`
}

// Create stores the caller's card. A second card for the same user is
// rejected with 409; the stored one must be removed out of band first.
func (h *CreditCardHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createCardReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.CardNumber = strings.ReplaceAll(strings.TrimSpace(req.CardNumber), " ", "")
	if req.CardHolderName == "" || req.CardNumber == "" || req.CVV == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "card fields required"})
	}
	if req.ExpiryMonth < 1 || req.ExpiryMonth > 12 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid expiry month"})
	}

	card := model.CreditCard{
		UserID:         uid,
		CardHolderName: req.CardHolderName,
		CardNumber:     h.Cipher.Encrypt(req.CardNumber),
		ExpiryMonth:    req.ExpiryMonth,
		ExpiryYear:     req.ExpiryYear,
		CVV:            h.Cipher.Encrypt(req.CVV),
		CardType:       utils.DetectCardType(req.CardNumber),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Cards.Create(ctx, &card); err != nil {
		if errors.Is(err, repository.ErrCardExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "card already stored"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store card failed"})
	}

	return c.JSON(http.StatusCreated, cardResp{
		ID:             card.ID,
		CardHolderName: card.CardHolderName,
		CardNumber:     req.CardNumber,
		ExpiryMonth:    card.ExpiryMonth,
		ExpiryYear:     card.ExpiryYear,
		CVV:            req.CVV,
		CardType:       card.CardType,
		CreatedAt:      card.CreatedAt,
	})
}

// Mine returns the caller's stored card with the encrypted fields
// decrypted.
func (h *CreditCardHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	card, err := h.Cards.GetByUser(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no card stored"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	number, err := h.Cipher.Decrypt(card.CardNumber)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decrypt failed"})
	}
	cvv, err := h.Cipher.Decrypt(card.CVV)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decrypt failed"})
	}

	return c.JSON(http.StatusOK, cardResp{
		ID:             card.ID,
		CardHolderName: card.CardHolderName,
		CardNumber:     number,
		ExpiryMonth:    card.ExpiryMonth,
		ExpiryYear:     card.ExpiryYear,
		CVV:            cvv,
		CardType:       card.CardType,
		CreatedAt:      card.CreatedAt,
	})
}
