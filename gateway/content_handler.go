package gateway

import (
	"net/http"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/service"
	"github.com/gin-gonic/gin"
)

func (g *Gateway) getAllContent(c *gin.Context) {
	content, err := g.contentService.All(c.Request.Context())
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "content": content})
}

func (g *Gateway) getContent(c *gin.Context) {
	key := c.Param("key")
	value, err := g.contentService.Get(c.Request.Context(), key)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "key": key, "value": value})
}

func (g *Gateway) updateContent(c *gin.Context) {
	var req service.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		g.writeError(c, bindError(err, "Key is required"))
		return
	}

	if err := g.contentService.Update(c.Request.Context(), req); err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "key": req.Key, "value": req.Value})
}

func (g *Gateway) batchUpdateContent(c *gin.Context) {
	var req service.BatchContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		g.writeError(c, bindError(err, "Updates object is required"))
		return
	}

	updated, err := g.contentService.BatchUpdate(c.Request.Context(), req)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated})
}

func (g *Gateway) deleteContent(c *gin.Context) {
	if err := g.contentService.Delete(c.Request.Context(), c.Param("key")); err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": true})
}
