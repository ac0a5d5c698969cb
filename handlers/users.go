package handlers

import (
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/stridekart/stridekart-backend-go/middleware"
	"github.com/stridekart/stridekart-backend-go/models"
	"github.com/stridekart/stridekart-backend-go/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) Register(c echo.Context) error {
	var user models.User
	if err := c.Bind(&user); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if _, err := mail.ParseAddress(user.Email); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid email format"})
	}
	if len(user.Password) < 8 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Password must be at least 8 characters"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to process password"})
	}
	user.Password = string(hashed)
	user.Role = models.RoleCustomer

	err = h.Store.Users.Create(c.Request().Context(), &user)
	if err == store.ErrDuplicateEmail {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Email already registered"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	user, err := h.Store.Users.ByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) GetProfile(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	user, err := h.Store.Users.ByID(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}
	user.Password = ""
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var req struct {
		Name        string `json:"name"`
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	err := h.Store.Users.UpdateProfile(c.Request().Context(), uid, req.Name, req.PhoneNumber)
	if err == store.ErrNotFound {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update profile"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}

// Address book. Finalized orders keep their own copy of the address, so
// edits and deletions here never rewrite order history.

func (h *Handler) GetAddresses(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	addresses, err := h.Store.Users.Addresses(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}
	return c.JSON(http.StatusOK, addresses)
}

func (h *Handler) AddAddress(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var addr models.Address
	if err := c.Bind(&addr); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid address data"})
	}
	if missing := addr.MissingFields(); len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required address fields"})
	}
	if addr.Country == "" {
		addr.Country = "India"
	}

	saved, err := h.Store.Users.AddAddress(c.Request().Context(), uid, addr)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to add address"})
	}
	return c.JSON(http.StatusOK, saved)
}

func (h *Handler) UpdateAddress(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	addressID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid address ID"})
	}

	var addr models.Address
	if err := c.Bind(&addr); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid address data"})
	}

	updated, err := h.Store.Users.UpdateAddress(c.Request().Context(), uid, addressID, addr)
	if err == store.ErrNotFound {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Address not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update address"})
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteAddress(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	addressID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid address ID"})
	}

	err = h.Store.Users.DeleteAddress(c.Request().Context(), uid, addressID)
	if err == store.ErrNotFound {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Address not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete address"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Address deleted successfully"})
}
