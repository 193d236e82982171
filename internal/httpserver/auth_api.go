package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersdomain "github.com/minimarket/go-gin-shop-server/internal/domains/users/domain"
	apierrors "github.com/minimarket/go-gin-shop-server/internal/shared/errors"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserResponse(user *usersdomain.User) userResponse {
	return userResponse{ID: user.ID, Email: user.Email, Role: string(user.Role)}
}

// Post /auth/register
// Register a new account
func (s *Server) Register(c *gin.Context) {
	var payload registerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	user, err := s.users.Register(c.Request.Context(), payload.Email, payload.Password, usersdomain.Role(payload.Role))
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Post /auth/login
// Log in and receive a bearer token
func (s *Server) Login(c *gin.Context) {
	var payload loginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	token, err := s.users.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token})
}

// Get /auth/profile
// Return the authenticated caller's account
func (s *Server) GetProfile(c *gin.Context) {
	principal, ok := callerOf(c)
	if !ok {
		s.responder.Respond(c, apierrors.ErrUnauthorized)
		return
	}
	user, err := s.users.GetProfile(c.Request.Context(), principal.UserID)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
