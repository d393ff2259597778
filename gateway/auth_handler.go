package gateway

import (
	"net/http"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/service"
	"github.com/gin-gonic/gin"
)

func (g *Gateway) login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		g.writeError(c, bindError(err, "Username and password required"))
		return
	}

	resp, err := g.authService.Login(c.Request.Context(), req)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (g *Gateway) verify(c *gin.Context) {
	principal, err := principalFrom(c)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "admin": principal})
}

func (g *Gateway) changePassword(c *gin.Context) {
	principal, err := principalFrom(c)
	if err != nil {
		g.writeError(c, err)
		return
	}

	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		g.writeError(c, bindError(err, "Current password and new password required"))
		return
	}

	if err := g.authService.ChangePassword(c.Request.Context(), principal, req); err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
}
