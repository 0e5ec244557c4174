package handler

import (
	"net/http"
	"strconv"

	"app/internal/repository"
	"app/internal/token"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"

	appmw "app/internal/middleware"
)

// /checkout と /orders のHTTP
type OrderHandler struct {
	uc     *usecase.OrderUsecase
	tokens *token.Service
	users  repository.UserRepository
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase, tokens *token.Service, users repository.UserRepository) *OrderHandler {
	return &OrderHandler{uc: uc, tokens: tokens, users: users}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	auth := appmw.AuthJWT(h.tokens, h.users)
	userOnly := appmw.UserRoleGuard()

	e.POST("/checkout", h.checkout, auth, userOnly)
	e.GET("/orders", h.listOrders, auth, userOnly)
	e.GET("/orders/:id", h.orderDetail, auth, userOnly)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Checkout(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listOrders(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) orderDetail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetMyOrderDetail(c.Request().Context(), userID, orderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
