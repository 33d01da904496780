package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/application/dto"
	"github.com/vyomerp/vyom-api/internal/application/ledger"
)

const dateLayout = "2006-01-02"

// LedgerHandler handles account balance and trial balance queries.
type LedgerHandler struct {
	engine *ledger.Engine
}

// NewLedgerHandler builds the handler.
func NewLedgerHandler(engine *ledger.Engine) *LedgerHandler {
	return &LedgerHandler{engine: engine}
}

// AccountBalance returns Σdebit − Σcredit of a head as of a date (today when
// omitted).
// GET /api/ledger/balance?account_head=&as_of=YYYY-MM-DD
func (h *LedgerHandler) AccountBalance(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	head := c.Query("account_head")
	if head == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "account_head required"})
	}
	asOf := time.Now()
	if s := c.Query("as_of"); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "as_of must be YYYY-MM-DD"})
		}
		asOf = parsed
	}
	balance, err := h.engine.Balance(companyID, head, asOf)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.AccountBalanceResponse{
		AccountHead: head,
		AsOf:        asOf.Format(dateLayout),
		Balance:     balance,
	})
}

// TrialBalance returns per-head debit/credit/net over [from, to].
// GET /api/ledger/trial-balance?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *LedgerHandler) TrialBalance(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from must be YYYY-MM-DD"})
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to must be YYYY-MM-DD"})
	}
	if to.Before(from) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to must not precede from"})
	}
	rows, err := h.engine.TrialBalance(companyID, from, to)
	if err != nil {
		return fail(c, err)
	}
	out := dto.TrialBalanceResponse{
		From: from.Format(dateLayout),
		To:   to.Format(dateLayout),
		Rows: make([]dto.TrialBalanceRowResponse, 0, len(rows)),
	}
	total := decimal.Zero
	for _, r := range rows {
		out.Rows = append(out.Rows, dto.TrialBalanceRowResponse{
			AccountHead: r.AccountHead,
			Debit:       r.Debit,
			Credit:      r.Credit,
			Balance:     r.Balance,
		})
		total = total.Add(r.Balance)
	}
	out.Total = total
	return c.JSON(out)
}
