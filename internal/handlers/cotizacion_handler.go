package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"fletes/internal/repositories/interfaces"
	"fletes/internal/services"
	"fletes/internal/utils"
	"fletes/internal/validators"
	"fletes/pkg/logger"
)

type CotizacionHandler struct {
	cotizacionService services.CotizacionService
	logger            *logger.Logger
}

func NewCotizacionHandler(cotizacionService services.CotizacionService, logger *logger.Logger) *CotizacionHandler {
	return &CotizacionHandler{cotizacionService: cotizacionService, logger: logger}
}

// Calcular returns the priced quote without saving it.
func (h *CotizacionHandler) Calcular(c *gin.Context) {
	var request validators.CalcularRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	cotizacion, err := h.cotizacionService.Calcular(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgOK, cotizacion)
}

func (h *CotizacionHandler) List(c *gin.Context) {
	var filter validators.FilterRequest
	if err := bindQuery(c, &filter); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	params := utils.GetPaginationParams(c)

	cotizaciones, total, err := h.cotizacionService.List(c.Request.Context(), interfaces.CotizacionFilter{
		Estado:   filter.Estado,
		ClientID: optionalID(filter.ClientID),
	}, params, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.PaginatedResponse(c, cotizaciones, params, total)
}

func (h *CotizacionHandler) Get(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	cotizacion, err := h.cotizacionService.GetByID(c.Request.Context(), id, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgOK, cotizacion)
}

func (h *CotizacionHandler) Create(c *gin.Context) {
	var request validators.CotizacionCreateRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	cotizacion, err := h.cotizacionService.Create(c.Request.Context(), &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, utils.MsgCreated, cotizacion)
}

func (h *CotizacionHandler) Update(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	var request validators.CotizacionUpdateRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	cotizacion, err := h.cotizacionService.Update(c.Request.Context(), id, &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgUpdated, cotizacion)
}

func (h *CotizacionHandler) Delete(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	if err := h.cotizacionService.Delete(c.Request.Context(), id, actorOf(c)); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgDeleted, nil)
}

func (h *CotizacionHandler) CambiarEstado(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	var request validators.EstadoCotizacionRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	cotizacion, err := h.cotizacionService.CambiarEstado(c.Request.Context(), id, &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgUpdated, cotizacion)
}

// ConvertirViaje schedules a trip for an accepted quote.
func (h *CotizacionHandler) ConvertirViaje(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	var request validators.ConvertirViajeRequest
	if err := bindJSON(c, &request); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	viaje, err := h.cotizacionService.ConvertirViaje(c.Request.Context(), id, &request, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, utils.MsgCreated, viaje)
}

func (h *CotizacionHandler) PDF(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	data, folio, err := h.cotizacionService.PDF(c.Request.Context(), id, actorOf(c))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="cotizacion-%s.pdf"`, folio))
	c.Data(http.StatusOK, "application/pdf", data)
}
