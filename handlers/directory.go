package handlers

import (
	"net/http"

	"serenity/services/directory"

	"github.com/gin-gonic/gin"
)

// DirectoryHandler serves the public, read-only site content.
type DirectoryHandler struct {
	Directory directory.DirectoryService
}

func NewDirectoryHandler(dir directory.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{Directory: dir}
}

func (h *DirectoryHandler) ListBranches(c *gin.Context) {
	branches, err := h.Directory.Branches(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"branches": branches})
}

func (h *DirectoryHandler) GetBranch(c *gin.Context) {
	branch, err := h.Directory.Branch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, branch)
}

// ListServices returns the treatment catalog grouped by name, optionally
// narrowed to one branch via ?branchId=.
func (h *DirectoryHandler) ListServices(c *gin.Context) {
	groups, err := h.Directory.ServiceGroups(c.Request.Context(), c.Query("branchId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": groups})
}

func (h *DirectoryHandler) ListWorkers(c *gin.Context) {
	workers, err := h.Directory.WorkersAt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": workers})
}

func (h *DirectoryHandler) ListReviews(c *gin.Context) {
	reviews, err := h.Directory.Reviews(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
