package handlers

import (
	"github.com/gin-gonic/gin"

	"fletes/internal/repositories/interfaces"
	"fletes/internal/services"
	"fletes/internal/utils"
	"fletes/internal/validators"
	"fletes/pkg/logger"
)

type ClienteHandler struct {
	clienteService services.ClienteService
	logger         *logger.Logger
}

func NewClienteHandler(clienteService services.ClienteService, logger *logger.Logger) *ClienteHandler {
	return &ClienteHandler{clienteService: clienteService, logger: logger}
}

func (h *ClienteHandler) List(c *gin.Context) {
	var filter validators.FilterRequest
	if err := bindQuery(c, &filter); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	params := utils.GetPaginationParams(c)

	clientes, total, err := h.clienteService.List(c.Request.Context(), interfaces.ClienteFilter{Estado: filter.Estado}, params)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.PaginatedResponse(c, clientes, params, total)
}

func (h *ClienteHandler) Get(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	if err := selfOrStaff(actorOf(c), id); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	cliente, err := h.clienteService.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgOK, cliente)
}

func (h *ClienteHandler) Create(c *gin.Context) {
	var request validators.ClienteCreateRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	cliente, err := h.clienteService.Create(c.Request.Context(), &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, utils.MsgCreated, cliente)
}

func (h *ClienteHandler) Update(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	var request validators.ClienteUpdateRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	cliente, err := h.clienteService.Update(c.Request.Context(), id, &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgUpdated, cliente)
}

func (h *ClienteHandler) Delete(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	if err := h.clienteService.Delete(c.Request.Context(), id, actorOf(c)); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgDeleted, nil)
}

// RegistrarDispositivo stores the push token of the client app.
func (h *ClienteHandler) RegistrarDispositivo(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	if err := selfOrStaff(actorOf(c), id); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	var request validators.DispositivoRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	if err := h.clienteService.RegistrarDispositivo(c.Request.Context(), id, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgUpdated, nil)
}
