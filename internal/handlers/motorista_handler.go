package handlers

import (
	"github.com/gin-gonic/gin"

	"fletes/internal/models"
	"fletes/internal/repositories/interfaces"
	"fletes/internal/services"
	"fletes/internal/utils"
	"fletes/internal/validators"
	"fletes/pkg/logger"
)

type MotoristaHandler struct {
	motoristaService services.MotoristaService
	mediaService     services.MediaService
	maxUpload        int64
	logger           *logger.Logger
}

func NewMotoristaHandler(motoristaService services.MotoristaService, mediaService services.MediaService, maxUpload int64, logger *logger.Logger) *MotoristaHandler {
	if maxUpload <= 0 {
		maxUpload = utils.MaxImageSize
	}
	return &MotoristaHandler{
		motoristaService: motoristaService,
		mediaService:     mediaService,
		maxUpload:        maxUpload,
		logger:           logger,
	}
}

func (h *MotoristaHandler) List(c *gin.Context) {
	var filter validators.FilterRequest
	if err := bindQuery(c, &filter); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	params := utils.GetPaginationParams(c)

	motoristas, total, err := h.motoristaService.List(c.Request.Context(), interfaces.MotoristaFilter{Estado: filter.Estado}, params)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.PaginatedResponse(c, motoristas, params, total)
}

// Disponibles lists drivers that can be assigned to a new trip.
func (h *MotoristaHandler) Disponibles(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	motoristas, total, err := h.motoristaService.Disponibles(c.Request.Context(), params)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.PaginatedResponse(c, motoristas, params, total)
}

func (h *MotoristaHandler) Get(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	if err := selfOrStaff(actorOf(c), id); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	motorista, err := h.motoristaService.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgOK, motorista)
}

func (h *MotoristaHandler) Create(c *gin.Context) {
	var request validators.MotoristaCreateRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	motorista, err := h.motoristaService.Create(c.Request.Context(), &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, utils.MsgCreated, motorista)
}

func (h *MotoristaHandler) Update(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	var request validators.MotoristaUpdateRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	motorista, err := h.motoristaService.Update(c.Request.Context(), id, &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgUpdated, motorista)
}

func (h *MotoristaHandler) Delete(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	if err := h.motoristaService.Delete(c.Request.Context(), id, actorOf(c)); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgDeleted, nil)
}

func (h *MotoristaHandler) SetEstado(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	var request validators.EstadoMotoristaRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	motorista, err := h.motoristaService.SetEstado(c.Request.Context(), id, models.EstadoMotorista(request.Estado), actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgUpdated, motorista)
}

// SubirFoto replaces the driver photo from a multipart "file" field.
func (h *MotoristaHandler) SubirFoto(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	actor := actorOf(c)
	if err := selfOrStaff(actor, id); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	data, err := readUpload(c, "file", h.maxUpload)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	motorista, err := h.mediaService.SetFotoMotorista(c.Request.Context(), id, data, actor)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgUpdated, motorista)
}

// ActualizarUbicacion receives the GPS position from the driver app.
func (h *MotoristaHandler) ActualizarUbicacion(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	if err := selfOrStaff(actorOf(c), id); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	var request validators.UbicacionRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	ubicacion, err := h.motoristaService.ActualizarUbicacion(c.Request.Context(), id, &request)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgUpdated, ubicacion)
}

func (h *MotoristaHandler) RegistrarDispositivo(c *gin.Context) {
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

	if err := h.motoristaService.RegistrarDispositivo(c.Request.Context(), id, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgUpdated, nil)
}
