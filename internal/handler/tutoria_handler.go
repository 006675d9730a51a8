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

type tutoriaService interface {
	Create(ctx context.Context, auth models.AuthContext, req dto.TutoriaRequest) (int64, error)
	Update(ctx context.Context, auth models.AuthContext, id int64, req dto.TutoriaRequest) error
	Delete(ctx context.Context, auth models.AuthContext, id int64) error
}

// TutoriaHandler exposes the record CRUD API.
type TutoriaHandler struct {
	service tutoriaService
	catalog models.Catalog
}

// NewTutoriaHandler builds a new handler.
func NewTutoriaHandler(service tutoriaService) *TutoriaHandler {
	return &TutoriaHandler{service: service, catalog: models.DefaultCatalog()}
}

// Catalog godoc
// @Summary List the accepted series and occurrence tags
// @Tags Tutorias
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalogo [get]
func (h *TutoriaHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog)
}

// Create godoc
// @Summary Create a tutoring record owned by the logged-in user
// @Tags Tutorias
// @Accept json
// @Produce json
// @Param payload body dto.TutoriaRequest true "Tutoria payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /tutorias [post]
func (h *TutoriaHandler) Create(c *gin.Context) {
	var req dto.TutoriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "payload inválido"))
		return
	}
	id, err := h.service.Create(c.Request.Context(), authFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.IDResponse{ID: id})
}

// Update godoc
// @Summary Replace the content of a tutoring record
// @Tags Tutorias
// @Accept json
// @Produce json
// @Param id path int true "Tutoria ID"
// @Param payload body dto.TutoriaRequest true "Tutoria payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tutorias/{id} [put]
func (h *TutoriaHandler) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.TutoriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "payload inválido"))
		return
	}
	if err := h.service.Update(c.Request.Context(), authFromContext(c), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.IDResponse{ID: id})
}

// Delete godoc
// @Summary Delete a tutoring record
// @Tags Tutorias
// @Param id path int true "Tutoria ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tutorias/{id} [delete]
func (h *TutoriaHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), authFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
