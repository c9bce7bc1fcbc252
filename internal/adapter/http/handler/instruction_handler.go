package handler

import (
	"context"
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/payinstr/internal/adapter/http/dto"
	"github.com/iho/payinstr/internal/adapter/http/middleware"
	"github.com/iho/payinstr/internal/domain"
	"github.com/iho/payinstr/internal/usecase"
)

// MaxRequestBodyBytes caps the size of an instruction request body.
const MaxRequestBodyBytes = 1 << 20

// InstructionService defines the behavior needed by InstructionHandler.
type InstructionService interface {
	ProcessInstruction(ctx context.Context, input usecase.ProcessInstructionInput) *domain.Result
	ListAudit(ctx context.Context, input usecase.ListAuditInput) ([]*domain.AuditRecord, error)
}

// InstructionHandler handles payment instruction HTTP requests.
type InstructionHandler struct {
	instructionUC InstructionService
}

// NewInstructionHandler creates a new InstructionHandler.
func NewInstructionHandler(instructionUC InstructionService) *InstructionHandler {
	return &InstructionHandler{instructionUC: instructionUC}
}

// Process parses, validates and resolves one payment instruction.
// The response is always a Result: 200 for successful or pending, 400 otherwise.
func (h *InstructionHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req dto.ProcessInstructionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)).Decode(&req); err != nil {
		// An undecodable body is processed as a request without an instruction.
		req = dto.ProcessInstructionRequest{}
	}

	clientID, _ := middleware.ClientIDFromContext(r.Context())
	input := req.ToUseCaseInput(chimiddleware.GetReqID(r.Context()), clientID)

	writeResult(w, h.instructionUC.ProcessInstruction(r.Context(), input))
}

// ListAudit lists recent audit records.
func (h *InstructionHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	since, err := parseTimeQuery(r, "since")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid since parameter", "expected RFC 3339 timestamp")
		return
	}

	records, err := h.instructionUC.ListAudit(r.Context(), usecase.ListAuditInput{
		StatusCode: r.URL.Query().Get("status_code"),
		RequestID:  r.URL.Query().Get("request_id"),
		Since:      since,
		Limit:      parseIntQuery(r, "limit", usecase.DefaultAuditPageSize),
	})
	if err != nil {
		status := mapDomainError(err)
		if status == http.StatusServiceUnavailable {
			writeError(w, status, "audit trail unavailable", "")
			return
		}
		writeError(w, status, "failed to list audit records", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditListResponse{
		Records: dto.AuditRecordsFromDomain(records),
		Count:   len(records),
	})
}
