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

type CamionHandler struct {
	camionService services.CamionService
	mediaService  services.MediaService
	maxUpload     int64
	logger        *logger.Logger
}

func NewCamionHandler(camionService services.CamionService, mediaService services.MediaService, maxUpload int64, logger *logger.Logger) *CamionHandler {
	if maxUpload <= 0 {
		maxUpload = utils.MaxImageSize
	}
	return &CamionHandler{
		camionService: camionService,
		mediaService:  mediaService,
		maxUpload:     maxUpload,
		logger:        logger,
	}
}

func (h *CamionHandler) List(c *gin.Context) {
	var filter validators.FilterRequest
	if err := bindQuery(c, &filter); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	params := utils.GetPaginationParams(c)

	camiones, total, err := h.camionService.List(c.Request.Context(), interfaces.CamionFilter{Estado: filter.Estado, Tipo: filter.Tipo}, params)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.PaginatedResponse(c, camiones, params, total)
}

func (h *CamionHandler) Disponibles(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	camiones, total, err := h.camionService.Disponibles(c.Request.Context(), params)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.PaginatedResponse(c, camiones, params, total)
}

func (h *CamionHandler) Get(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	camion, err := h.camionService.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgOK, camion)
}

func (h *CamionHandler) Create(c *gin.Context) {
	var request validators.CamionCreateRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	camion, err := h.camionService.Create(c.Request.Context(), &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, utils.MsgCreated, camion)
}

func (h *CamionHandler) Update(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	var request validators.CamionUpdateRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	camion, err := h.camionService.Update(c.Request.Context(), id, &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgUpdated, camion)
}

func (h *CamionHandler) Delete(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	if err := h.camionService.Delete(c.Request.Context(), id, actorOf(c)); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgDeleted, nil)
}

func (h *CamionHandler) SetEstado(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	var request validators.EstadoCamionRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	camion, err := h.camionService.SetEstado(c.Request.Context(), id, models.EstadoCamion(request.Estado), actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgUpdated, camion)
}

// AgregarFoto appends a photo from the multipart "file" field.
func (h *CamionHandler) AgregarFoto(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	data, err := readUpload(c, "file", h.maxUpload)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	camion, err := h.mediaService.AgregarFotoCamion(c.Request.Context(), id, data, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, utils.MsgUpdated, camion)
}
