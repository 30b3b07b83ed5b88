package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentflow/rentflow/internal/api/dto"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/logger"
	"github.com/rentflow/rentflow/internal/service"
	"github.com/rentflow/rentflow/internal/types"
)

type LeaseHandler struct {
	service service.LeaseService
	log     *logger.Logger
}

func NewLeaseHandler(service service.LeaseService, log *logger.Logger) *LeaseHandler {
	return &LeaseHandler{service: service, log: log}
}

// @Summary Create a lease draft
// @Description Create a lease draft from an approved rental application
// @Tags Leases
// @Accept json
// @Produce json
// @Param lease body dto.CreateLeaseRequest true "Lease configuration"
// @Success 201 {object} dto.LeaseResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /leases [post]
func (h *LeaseHandler) CreateLease(c *gin.Context) {
	var req dto.CreateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateDraft(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to create lease draft", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a lease by ID
// @Description Get a lease with its signatures
// @Tags Leases
// @Produce json
// @Param id path string true "Lease ID"
// @Success 200 {object} dto.LeaseResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /leases/{id} [get]
func (h *LeaseHandler) GetLease(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Lease ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetLease(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List leases
// @Description List leases with optional filtering
// @Tags Leases
// @Produce json
// @Success 200 {array} dto.LeaseResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /leases [get]
func (h *LeaseHandler) ListLeases(c *gin.Context) {
	var filter types.LeaseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}
	if err := filter.Validate(); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.ListLeases(c.Request.Context(), &filter)
	if err != nil {
		h.log.Errorw("failed to list leases", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Record a signature
// @Description Record one party's signature; the lease activates when both roles have signed
// @Tags Leases
// @Accept json
// @Produce json
// @Param id path string true "Lease ID"
// @Param signature body dto.RecordSignatureRequest true "Signature"
// @Success 200 {object} dto.SignResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /leases/{id}/signatures [post]
func (h *LeaseHandler) RecordSignature(c *gin.Context) {
	var req dto.RecordSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	req.LeaseID = c.Param("id")

	resp, err := h.service.RecordSignature(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to record signature", "error", err, "lease_id", req.LeaseID)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Terminate a lease
// @Description End an active lease early with a reason
// @Tags Leases
// @Accept json
// @Produce json
// @Param id path string true "Lease ID"
// @Param termination body dto.TerminateLeaseRequest true "Termination details"
// @Success 200 {object} dto.LeaseResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /leases/{id}/terminate [post]
func (h *LeaseHandler) TerminateLease(c *gin.Context) {
	var req dto.TerminateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	req.LeaseID = c.Param("id")

	resp, err := h.service.Terminate(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to terminate lease", "error", err, "lease_id", req.LeaseID)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Renew a lease
// @Description Create a successor lease starting the day after the current one ends
// @Tags Leases
// @Accept json
// @Produce json
// @Param id path string true "Lease ID"
// @Param renewal body dto.RenewLeaseRequest true "Renewal details"
// @Success 201 {object} dto.LeaseResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /leases/{id}/renew [post]
func (h *LeaseHandler) RenewLease(c *gin.Context) {
	var req dto.RenewLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	req.LeaseID = c.Param("id")

	resp, err := h.service.Renew(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to renew lease", "error", err, "lease_id", req.LeaseID)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
