package handlers

import (
	"github.com/gin-gonic/gin"

	"fletes/internal/repositories/interfaces"
	"fletes/internal/services"
	"fletes/internal/utils"
	"fletes/internal/validators"
	"fletes/pkg/logger"
)

// EmpleadoHandler serves the admin-only staff endpoints.
type EmpleadoHandler struct {
	empleadoService services.EmpleadoService
	logger          *logger.Logger
}

func NewEmpleadoHandler(empleadoService services.EmpleadoService, logger *logger.Logger) *EmpleadoHandler {
	return &EmpleadoHandler{empleadoService: empleadoService, logger: logger}
}

func (h *EmpleadoHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filter := interfaces.EmpleadoFilter{Estado: c.Query("estado"), Rol: c.Query("rol")}

	empleados, total, err := h.empleadoService.List(c.Request.Context(), filter, params)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.PaginatedResponse(c, empleados, params, total)
}

func (h *EmpleadoHandler) Get(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	empleado, err := h.empleadoService.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgOK, empleado)
}

func (h *EmpleadoHandler) Create(c *gin.Context) {
	var request validators.EmpleadoCreateRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	empleado, err := h.empleadoService.Create(c.Request.Context(), &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, utils.MsgCreated, empleado)
}

func (h *EmpleadoHandler) Update(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	var request validators.EmpleadoUpdateRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	empleado, err := h.empleadoService.Update(c.Request.Context(), id, &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgUpdated, empleado)
}

func (h *EmpleadoHandler) Delete(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	if err := h.empleadoService.Delete(c.Request.Context(), id, actorOf(c)); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgDeleted, nil)
}
