package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"janmat/backend/internal/apperr"
	"janmat/backend/internal/complaint"
)

type createComplaintRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Urgency     string   `json:"urgency" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	Attachments []string `json:"attachments"`
}

func (h *Handler) CreateComplaint(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := callerIdentity(c)
	created, err := h.Complaints.Create(identity.ID, complaint.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Urgency:     req.Urgency,
		Attachments: req.Attachments,
	})
	if err != nil {
		c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

type transitionRequest struct {
	Status  string `json:"status" binding:"required,oneof=PENDING IN_PROGRESS RESOLVED REJECTED"`
	Comment string `json:"comment" binding:"required"`
}

func (h *Handler) UpdateComplaintStatus(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := callerIdentity(c)
	actor := identity.Name
	if actor == "" {
		actor = identity.ID
	}

	updated, err := h.Complaints.Transition(c.Param("id"), req.Status, req.Comment, actor)
	if err != nil {
		c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

type updateComplaintRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Urgency     string `json:"urgency" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	Location    string `json:"location"`
}

func (h *Handler) UpdateComplaint(c *gin.Context) {
	var req updateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := callerIdentity(c)
	updated, err := h.Complaints.Update(c.Param("id"), identity.ID, complaint.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Urgency:     req.Urgency,
		Location:    req.Location,
	})
	if err != nil {
		c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteComplaint(c *gin.Context) {
	identity := callerIdentity(c)
	if err := h.Complaints.Delete(c.Param("id"), identity.ID); err != nil {
		c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) GetComplaint(c *gin.Context) {
	found, err := h.Complaints.Get(c.Param("id"))
	if err != nil {
		c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, found)
}

// ListMyComplaints returns the caller's own complaints.
func (h *Handler) ListMyComplaints(c *gin.Context) {
	identity := callerIdentity(c)
	complaints, err := h.Complaints.ListByOwner(identity.ID)
	if err != nil {
		c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, complaints)
}

// ListAssignedComplaints returns the complaints assigned to the calling
// officer.
func (h *Handler) ListAssignedComplaints(c *gin.Context) {
	identity := callerIdentity(c)
	complaints, err := h.Complaints.ListAssigned(identity.ID)
	if err != nil {
		c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, complaints)
}
