package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoria-api/internal/dto"
	"github.com/noah-isme/tutoria-api/internal/models"
	appErrors "github.com/noah-isme/tutoria-api/pkg/errors"
	"github.com/noah-isme/tutoria-api/pkg/response"
)

type gestaoService interface {
	Professores(ctx context.Context, auth models.AuthContext) ([]models.ProfessorSummary, error)
	Tutorias(ctx context.Context, auth models.AuthContext) ([]models.Tutoria, error)
	BulkStamp(ctx context.Context, auth models.AuthContext, req dto.CarimboRequest) (int64, error)
	StampOne(ctx context.Context, auth models.AuthContext, id int64, req dto.CarimboRequest) error
	Export(ctx context.Context, auth models.AuthContext, format dto.ExportFormat) (*dto.ExportFile, error)
}

// GestaoHandler exposes the administrative reports and stamp endpoints.
type GestaoHandler struct {
	service gestaoService
}

// NewGestaoHandler builds a new handler.
func NewGestaoHandler(service gestaoService) *GestaoHandler {
	return &GestaoHandler{service: service}
}

// Professores godoc
// @Summary List every account
// @Tags Gestao
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /gestao/professores [get]
func (h *GestaoHandler) Professores(c *gin.Context) {
	items, err := h.service.Professores(c.Request.Context(), authFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Tutorias godoc
// @Summary List every tutoring record
// @Tags Gestao
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /gestao/tutorias [get]
func (h *GestaoHandler) Tutorias(c *gin.Context) {
	items, err := h.service.Tutorias(c.Request.Context(), authFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Export godoc
// @Summary Download the full report
// @Tags Gestao
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /gestao/tutorias/export [get]
func (h *GestaoHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), authFromContext(c), dto.ExportFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// BulkStamp godoc
// @Summary Stamp every tutoring record
// @Tags Gestao
// @Accept json
// @Produce json
// @Param payload body dto.CarimboRequest true "Stamp values"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /gestao/carimbo [post]
func (h *GestaoHandler) BulkStamp(c *gin.Context) {
	req, ok := bindCarimbo(c)
	if !ok {
		return
	}
	applied, err := h.service.BulkStamp(c.Request.Context(), authFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.StampResult{Aplicados: applied})
}

// StampOne godoc
// @Summary Stamp a single tutoring record
// @Tags Gestao
// @Accept json
// @Produce json
// @Param id path int true "Tutoria ID"
// @Param payload body dto.CarimboRequest true "Stamp values"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /gestao/tutorias/{id}/carimbo [post]
func (h *GestaoHandler) StampOne(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	req, ok := bindCarimbo(c)
	if !ok {
		return
	}
	if err := h.service.StampOne(c.Request.Context(), authFromContext(c), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.IDResponse{ID: id})
}

// bindCarimbo accepts an empty body as an all-default stamp.
func bindCarimbo(c *gin.Context) (dto.CarimboRequest, bool) {
	var req dto.CarimboRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "payload inválido"))
		return req, false
	}
	return req, true
}
