package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vyomerp/vyom-api/internal/application/audit"
	"github.com/vyomerp/vyom-api/internal/application/dto"
)

// AuditHandler exposes the audit trail (admin only).
type AuditHandler struct {
	recorder *audit.Recorder
}

// NewAuditHandler builds the handler.
func NewAuditHandler(recorder *audit.Recorder) *AuditHandler {
	return &AuditHandler{recorder: recorder}
}

// List returns the company's audit trail, newest first.
// GET /api/audit
func (h *AuditHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	logs, err := h.recorder.List(companyID, page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.AuditLogResponse{
			ID:         l.ID,
			UserID:     l.UserID,
			Action:     l.Action,
			Module:     l.Module,
			RecordType: l.RecordType,
			RecordID:   l.RecordID,
			OldValues:  l.OldValues,
			NewValues:  l.NewValues,
			CreatedAt:  l.CreatedAt,
		})
	}
	return c.JSON(out)
}
