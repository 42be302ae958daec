package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/redis"
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/repository"
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type APIHandler struct {
	orderRepo       repository.OrderRepository
	cakeRepo        repository.CakeRepository
	authService     services.AuthService
	redisClient     *redis.Client
	catalogCacheTTL time.Duration
}

func NewAPIHandler(
	orderRepo repository.OrderRepository,
	cakeRepo repository.CakeRepository,
	authService services.AuthService,
	redisClient *redis.Client,
	catalogCacheTTL time.Duration,
) *APIHandler {
	return &APIHandler{
		orderRepo:       orderRepo,
		cakeRepo:        cakeRepo,
		authService:     authService,
		redisClient:     redisClient,
		catalogCacheTTL: catalogCacheTTL,
	}
}

// Login checks the shared store passphrase and opens a staff session.
func (h *APIHandler) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

func (h *APIHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token != "" {
		h.authService.Logout(c.Request.Context(), token)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RequireSession guards the staff endpoints behind the passphrase gate.
func (h *APIHandler) RequireSession(c *gin.Context) {
	if !h.authService.Verify(c.Request.Context(), bearerToken(c)) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}
	c.Next()
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}

// ListOrders returns the order collection, optionally filtered by a search
// term across customer name, phone and reception number.
func (h *APIHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderRepo.Search(c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// CreateOrder takes a new reservation. Each line captures the catalog stock
// at order time as its snapshot, and the catalog stock is decremented.
func (h *APIHandler) CreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}
	if order.FirstName == "" || order.LastName == "" || order.Date == "" || len(order.Cakes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing required fields"})
		return
	}
	for _, line := range order.Cakes {
		if line.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "line quantity must be positive"})
			return
		}
	}

	order.ID = 0
	if !order.Status.Valid() {
		order.Status = models.StatusUnpaid
	}
	h.snapshotStock(c, &order)

	if err := h.orderRepo.Create(&order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id_order": order.ID})
}

func (h *APIHandler) snapshotStock(c *gin.Context, order *models.Order) {
	for i := range order.Cakes {
		line := &order.Cakes[i]
		cake, err := h.cakeRepo.GetByID(line.CakeID)
		if err != nil {
			continue
		}
		for _, size := range cake.Sizes {
			if size.Size == line.Size {
				line.Stock = size.Stock
				h.cakeRepo.UpdateSizeStock(size.ID, size.Stock-line.Amount)
				h.redisClient.InvalidateCakes(c.Request.Context())
				break
			}
		}
	}
}

// UpdateStatus is the status-update endpoint the staff list talks to. The
// body carries only the new status; the response is the {success, error}
// contract.
func (h *APIHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid order id"})
		return
	}

	var req struct {
		Status models.Status `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid status value"})
		return
	}

	if err := h.orderRepo.UpdateStatus(uint(id), req.Status); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ReplaceOrder overwrites one record with the edited version, lines
// included.
func (h *APIHandler) ReplaceOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid order id"})
		return
	}

	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}
	order.ID = uint(id)
	if !order.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid status value"})
		return
	}

	if _, err := h.orderRepo.GetByID(order.ID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
		return
	}

	if err := h.orderRepo.Replace(&order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListCakes serves the reservation catalog, cached in redis.
func (h *APIHandler) ListCakes(c *gin.Context) {
	if cakes, err := h.redisClient.GetCakes(c.Request.Context()); err == nil {
		c.JSON(http.StatusOK, gin.H{"cakes": cakes})
		return
	}

	cakes, err := h.cakeRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load cakes"})
		return
	}
	h.redisClient.SetCakes(c.Request.Context(), cakes, h.catalogCacheTTL)

	c.JSON(http.StatusOK, gin.H{"cakes": cakes})
}

// SalesReport serves the aggregated sales/inventory view.
func (h *APIHandler) SalesReport(c *gin.Context) {
	orders, err := h.orderRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, services.BuildSalesReport(orders))
}
