package handlers

import (
	"github.com/gin-gonic/gin"

	"fletes/internal/repositories/interfaces"
	"fletes/internal/services"
	"fletes/internal/utils"
	"fletes/internal/validators"
	"fletes/pkg/logger"
)

type ViajeHandler struct {
	viajeService services.ViajeService
	logger       *logger.Logger
}

func NewViajeHandler(viajeService services.ViajeService, logger *logger.Logger) *ViajeHandler {
	return &ViajeHandler{viajeService: viajeService, logger: logger}
}

func (h *ViajeHandler) List(c *gin.Context) {
	var filter validators.ViajeFilter
	if err := bindQuery(c, &filter); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	params := utils.GetPaginationParams(c)

	viajes, total, err := h.viajeService.List(c.Request.Context(), interfaces.ViajeFilter{
		Estado:      filter.Estado,
		ConductorID: optionalID(filter.ConductorID),
		TruckID:     optionalID(filter.TruckID),
		ClientID:    optionalID(filter.ClientID),
	}, params, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.PaginatedResponse(c, viajes, params, total)
}

func (h *ViajeHandler) Get(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	viaje, err := h.viajeService.GetByID(c.Request.Context(), id, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgOK, viaje)
}

func (h *ViajeHandler) Create(c *gin.Context) {
	var request validators.ViajeCreateRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	viaje, err := h.viajeService.Create(c.Request.Context(), &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, utils.MsgCreated, viaje)
}

func (h *ViajeHandler) Update(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	var request validators.ViajeUpdateRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	viaje, err := h.viajeService.Update(c.Request.Context(), id, &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgUpdated, viaje)
}

func (h *ViajeHandler) Delete(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	if err := h.viajeService.Delete(c.Request.Context(), id, actorOf(c)); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgDeleted, nil)
}

func (h *ViajeHandler) CambiarEstado(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	var request validators.EstadoViajeRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	viaje, err := h.viajeService.CambiarEstado(c.Request.Context(), id, &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgUpdated, viaje)
}

func (h *ViajeHandler) Progreso(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	progreso, err := h.viajeService.Progreso(c.Request.Context(), id, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgOK, progreso)
}

// ActualizarUbicacion takes a GPS fix from the driver app and returns the new progress.
func (h *ViajeHandler) ActualizarUbicacion(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	var request validators.UbicacionRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	progreso, err := h.viajeService.ActualizarUbicacion(c.Request.Context(), id, &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgUpdated, progreso)
}
