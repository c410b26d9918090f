package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"insight-web/pkg/leadform"
	"insight-web/pkg/middleware"
	"insight-web/pkg/models"
)

func (h *Handlers) visitorForm(c *gin.Context) *leadform.Form {
	return h.leadForms.Get(c.GetString(middleware.VisitorKey))
}

// GetLeadForm returns the current state of the visitor's form. Reading does
// not create one.
func (h *Handlers) GetLeadForm(c *gin.Context) {
	form, ok := h.leadForms.Lookup(c.GetString(middleware.VisitorKey))
	if !ok {
		c.JSON(http.StatusOK, leadform.Snapshot{Status: leadform.StatusIdle})
		return
	}
	c.JSON(http.StatusOK, form.Snapshot())
}

// OpenLeadForm starts a fresh form
func (h *Handlers) OpenLeadForm(c *gin.Context) {
	form := h.visitorForm(c)
	form.Open()
	c.JSON(http.StatusOK, form.Snapshot())
}

// UpdateLeadForm applies whichever of name and phone are present and returns
// the snapshot with the re-masked phone.
func (h *Handlers) UpdateLeadForm(c *gin.Context) {
	var data models.LeadFormData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}
	form := h.visitorForm(c)
	applyLeadFields(form, data)
	c.JSON(http.StatusOK, form.Snapshot())
}

// SubmitLeadForm validates and sends the lead. A body, if any, is applied
// first so a plain form post works without a prior PATCH.
func (h *Handlers) SubmitLeadForm(c *gin.Context) {
	form := h.visitorForm(c)

	if c.Request.ContentLength > 0 {
		var data models.LeadFormData
		if err := c.ShouldBindJSON(&data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
			return
		}
		applyLeadFields(form, data)
	}

	// the visitor leaving the page must not abort a lead already on its way
	err := form.Submit(context.WithoutCancel(c.Request.Context()))
	snap := form.Snapshot()

	switch {
	case err == nil && snap.Status == leadform.StatusSubmitting:
		// another request of the same visitor is still sending
		c.JSON(http.StatusAccepted, snap)
	case err == nil:
		c.JSON(http.StatusOK, snap)
	case errors.Is(err, leadform.ErrNotOpen):
		c.JSON(http.StatusConflict, snap)
	case leadform.IsKind(err, leadform.KindSubmissionFailed):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, snap)
	default:
		c.JSON(http.StatusUnprocessableEntity, snap)
	}
}

// CloseLeadForm discards the form
func (h *Handlers) CloseLeadForm(c *gin.Context) {
	form := h.visitorForm(c)
	form.Close()
	c.JSON(http.StatusOK, form.Snapshot())
}

func applyLeadFields(form *leadform.Form, data models.LeadFormData) {
	if data.Name != nil {
		form.UpdateName(*data.Name)
	}
	if data.Phone != nil {
		form.UpdatePhone(*data.Phone)
	}
}
