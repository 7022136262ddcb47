package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"fletes/internal/services"
	"fletes/internal/utils"
	"fletes/internal/validators"
	"fletes/pkg/logger"
)

type AuthHandler struct {
	authService services.AuthService
	logger      *logger.Logger
}

func NewAuthHandler(authService services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// Login authenticates an empleado, motorista or cliente.
func (h *AuthHandler) Login(c *gin.Context) {
	var request validators.LoginRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &request, c.ClientIP())
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgLoggedIn, response)
}

// Register creates a cliente account from the mobile app.
func (h *AuthHandler) Register(c *gin.Context) {
	var request validators.RegisterRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, utils.MsgCreated, response)
}

func (h *AuthHandler) Me(c *gin.Context) {
	actor := actorOf(c)
	perfil, err := h.authService.Me(c.Request.Context(), actor.ID, actor.Role)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgOK, perfil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	expiresAt, _ := c.Get(utils.ContextTokenExp)
	exp, _ := expiresAt.(time.Time)

	if err := h.authService.Logout(c.Request.Context(), actorOf(c), c.GetString(utils.ContextTokenID), exp); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgLoggedOut, nil)
}
