package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hmasuda/sitework/internal/project"
)

type projectRequest struct {
	ProjectName          string `json:"project_name"`
	ConstructionLocation string `json:"construction_location"`
	ConstructionCompany  string `json:"construction_company"`
}

func handleProjectList(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := project.ListWithStatus(d.db)
		if err != nil {
			writeError(c, d, err)
			return
		}
		out := make([]projectJSON, len(summaries))
		for i, s := range summaries {
			out[i] = toProjectJSON(s)
		}
		c.JSON(http.StatusOK, gin.H{"projects": out})
	}
}

func handleProjectCreate(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req projectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, d, fmt.Errorf("%w: %v", errInvalidRequest, err))
			return
		}
		p, err := project.Create(d.db, project.CreateOpts{
			Name:     req.ProjectName,
			Location: req.ConstructionLocation,
			Company:  req.ConstructionCompany,
		})
		if err != nil {
			writeError(c, d, err)
			return
		}
		c.JSON(http.StatusCreated, toProjectJSON(project.Summary{Project: *p, Status: "not_started"}))
	}
}

func handleProjectGet(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := project.Summarize(d.db, c.Param("id"))
		if err != nil {
			writeError(c, d, err)
			return
		}
		c.JSON(http.StatusOK, toProjectJSON(*s))
	}
}

func handleProjectUpdate(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProjectName          *string `json:"project_name"`
			ConstructionLocation *string `json:"construction_location"`
			ConstructionCompany  *string `json:"construction_company"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, d, fmt.Errorf("%w: %v", errInvalidRequest, err))
			return
		}
		if _, err := project.Update(d.db, c.Param("id"), project.UpdateOpts{
			Name:     req.ProjectName,
			Location: req.ConstructionLocation,
			Company:  req.ConstructionCompany,
		}); err != nil {
			writeError(c, d, err)
			return
		}
		s, err := project.Summarize(d.db, c.Param("id"))
		if err != nil {
			writeError(c, d, err)
			return
		}
		c.JSON(http.StatusOK, toProjectJSON(*s))
	}
}

func handleProjectDelete(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := project.Delete(d.db, c.Param("id")); err != nil {
			writeError(c, d, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
