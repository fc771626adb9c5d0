package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "centavo/internal/errors"
	"centavo/internal/services"
)

// ImportHandler handles statement import flows.
type ImportHandler struct {
	importService services.ImportServicer
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService services.ImportServicer) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// StartImport parses an uploaded OFX statement and opens a reconciliation
// session. The file goes in the "statement" multipart field.
func (h *ImportHandler) StartImport(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileHeader, err := c.FormFile("statement")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "statement file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrStatementParse, err))
		return
	}
	defer file.Close()

	session, err := h.importService.Start(accountID, file)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// GetSession returns the current state of an import session.
func (h *ImportHandler) GetSession(c *gin.Context) {
	session, err := h.importService.Get(c.Param("sessionId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// toggleRequest selects one candidate by index.
type toggleRequest struct {
	Index int `json:"index" binding:"min=0"`
}

// ToggleOne flips the selection of one candidate.
func (h *ImportHandler) ToggleOne(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	session, err := h.importService.ToggleOne(c.Param("sessionId"), req.Index)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// ToggleAll selects or deselects every candidate.
func (h *ImportHandler) ToggleAll(c *gin.Context) {
	session, err := h.importService.ToggleAll(c.Param("sessionId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// setCategoryRequest reassigns the suggested category of one candidate.
type setCategoryRequest struct {
	Index      int   `json:"index" binding:"min=0"`
	CategoryID *uint `json:"category_id"`
}

// SetCategory reassigns the suggested category of one candidate.
func (h *ImportHandler) SetCategory(c *gin.Context) {
	var req setCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	session, err := h.importService.SetCategory(c.Param("sessionId"), req.Index, req.CategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// RemoveCandidate structurally removes one candidate from the session.
func (h *ImportHandler) RemoveCandidate(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	session, err := h.importService.Remove(c.Param("sessionId"), req.Index)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// Commit persists the selected candidates and closes the session.
func (h *ImportHandler) Commit(c *gin.Context) {
	imported, err := h.importService.Commit(c.Param("sessionId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported_count": imported})
}

// Cancel discards the session without importing anything.
func (h *ImportHandler) Cancel(c *gin.Context) {
	if err := h.importService.Cancel(c.Param("sessionId")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}
