package handlers

import (
	"errors"
	"strconv"

	"loandesk/internal/core/domain"
	"loandesk/internal/core/services"
	"loandesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

// principalFromLocals rebuilds the principal stored by the auth middleware
func principalFromLocals(c *fiber.Ctx) domain.Principal {
	userID, _ := c.Locals("userID").(uint)
	username, _ := c.Locals("username").(string)
	roles, _ := c.Locals("roles").([]string)

	return domain.Principal{
		UserID:   userID,
		Username: username,
		Roles:    roles,
	}
}

// Request creates a new loan for the authenticated user
func (h *LoanHandler) Request(c *fiber.Ctx) error {
	var input services.RequestLoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	principal := principalFromLocals(c)

	loan, err := h.loanService.RequestLoan(c.Context(), &input, principal)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Amount must be at least 100 and term at least 1 month")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You are not allowed to request loans")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to request loan")
		}
	}

	return response.Created(c, "Loan requested successfully", fiber.Map{
		"loan": loan,
	})
}

// MyLoans lists the authenticated user's loans
func (h *LoanHandler) MyLoans(c *fiber.Ctx) error {
	principal := principalFromLocals(c)

	loans, err := h.loanService.GetUserLoans(c.Context(), principal.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", fiber.Map{
		"loans": loans,
	})
}

// List lists all loans (admin only)
func (h *LoanHandler) List(c *fiber.Ctx) error {
	loans, err := h.loanService.GetAllLoans(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", fiber.Map{
		"loans": loans,
	})
}

// Pending lists loans awaiting review (admin only)
func (h *LoanHandler) Pending(c *fiber.Ctx) error {
	loans, err := h.loanService.GetPendingLoans(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list pending loans")
	}

	return response.Success(c, "Pending loans retrieved successfully", fiber.Map{
		"loans": loans,
	})
}

// GetByID returns a single loan
func (h *LoanHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	principal := principalFromLocals(c)

	loan, err := h.loanService.GetLoanByID(c.Context(), uint(id), principal)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You are not allowed to view this loan")
		default:
			return response.InternalServerError(c, "Failed to get loan")
		}
	}

	return response.Success(c, "Loan retrieved successfully", fiber.Map{
		"loan": loan,
	})
}

// Review approves or rejects a pending loan (admin only)
func (h *LoanHandler) Review(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var input services.ReviewLoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	principal := principalFromLocals(c)

	loan, err := h.loanService.ReviewLoan(c.Context(), uint(id), &input, principal)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only administrators can review loans")
		case errors.Is(err, domain.ErrInvalidState):
			return response.Conflict(c, "Loan has already been reviewed")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid action, use APPROVED or REJECTED")
		default:
			return response.InternalServerError(c, "Failed to review loan")
		}
	}

	return response.Success(c, "Loan reviewed successfully", fiber.Map{
		"loan": loan,
	})
}
