package gateway

import (
	"net/http"
	"strconv"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/apperror"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/service"
	"github.com/gin-gonic/gin"
)

const missingOrderFields = "Missing required fields: name, phone, items, and total are required"

func orderID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.NotFound("Order not found")
	}
	return uint(id), nil
}

func (g *Gateway) placeOrder(c *gin.Context) {
	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		g.writeError(c, bindError(err, missingOrderFields))
		return
	}

	order, err := g.orderService.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		g.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order placed successfully! We will contact you shortly.",
		"orderId": order.ID,
	})
}

func (g *Gateway) listOrders(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			g.writeError(c, apperror.Validation("invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	orders, err := g.orderService.ListOrders(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (g *Gateway) getStats(c *gin.Context) {
	stats, err := g.orderService.GetStats(c.Request.Context())
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (g *Gateway) adjustRevenue(c *gin.Context) {
	var req service.AdjustRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		g.writeError(c, bindError(err, ""))
		return
	}

	value, err := g.orderService.AdjustRevenue(c.Request.Context(), req)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "manual_revenue": value})
}

func (g *Gateway) getOrder(c *gin.Context) {
	id, err := orderID(c)
	if err != nil {
		g.writeError(c, err)
		return
	}

	order, err := g.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (g *Gateway) getOrderAudit(c *gin.Context) {
	id, err := orderID(c)
	if err != nil {
		g.writeError(c, err)
		return
	}

	var limit int64
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			g.writeError(c, apperror.Validation("invalid limit %q", raw))
			return
		}
	}

	logs, err := g.orderService.GetAuditLogs(c.Request.Context(), id, limit)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (g *Gateway) updateOrder(c *gin.Context) {
	id, err := orderID(c)
	if err != nil {
		g.writeError(c, err)
		return
	}

	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		g.writeError(c, bindError(err, ""))
		return
	}

	order, err := g.orderService.UpdateOrder(c.Request.Context(), id, req)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (g *Gateway) deleteOrder(c *gin.Context) {
	id, err := orderID(c)
	if err != nil {
		g.writeError(c, err)
		return
	}

	if err := g.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
