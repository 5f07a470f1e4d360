package auth

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/petclinic-api/internal/middleware"
	"github.com/jwalitptl/petclinic-api/internal/model"
	"github.com/jwalitptl/petclinic-api/internal/service/auth"
	apperrors "github.com/jwalitptl/petclinic-api/pkg/errors"
	"github.com/jwalitptl/petclinic-api/pkg/httputil"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterOwner(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewValidation("body"))
		return
	}

	user, err := h.service.RegisterOwner(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, user)
}

func (h *Handler) RegisterVet(c *gin.Context) {
	var req model.RegisterVetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewValidation("body"))
		return
	}

	vet, err := h.service.RegisterVet(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, vet)
}

func (h *Handler) LoginOwner(c *gin.Context) {
	h.login(c, h.service.LoginOwner)
}

func (h *Handler) LoginVet(c *gin.Context) {
	h.login(c, h.service.LoginVet)
}

func (h *Handler) login(c *gin.Context, fn func(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewValidation("body"))
		return
	}

	tokens, err := fn(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, tokens)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		httputil.RespondWithError(c, apperrors.NewValidation("refresh_token"))
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, tokens)
}

func (h *Handler) Logout(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.NewAuthRequired(nil))
		return
	}

	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"logged_out": true})
}

func (h *Handler) OwnerProfile(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	user, err := h.service.OwnerProfile(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, user)
}

func (h *Handler) VetProfile(c *gin.Context) {
	vetID, err := middleware.UserID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	vet, err := h.service.VetProfile(c.Request.Context(), vetID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, vet)
}
