package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type RevalidateController struct {
	Base
}

type revalidateRequest struct {
	Tags []string `json:"tags" binding:"required,min=1,dive,required,max=120"`
}

// Revalidate invalidates the given tags on demand.
func (rc *RevalidateController) Revalidate(c *gin.Context) {
	var req revalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tags := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no tags"})
		return
	}
	rc.revalidate(tags...)
	c.JSON(http.StatusOK, gin.H{"revalidated": true, "tags": tags})
}
