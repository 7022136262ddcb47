package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/middleware"
	"fletes/internal/models"
	"fletes/internal/utils"
	"fletes/internal/validators"
)

// bindJSON decodes the body into dst and runs the struct validators.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return utils.BadRequest("El cuerpo de la solicitud está vacío")
		}
		return utils.BadRequest("JSON inválido: " + err.Error())
	}
	return validators.ValidateStruct(dst)
}

// bindQuery decodes query parameters into dst and validates them.
func bindQuery(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindQuery(dst); err != nil {
		return utils.BadRequest("Parámetros inválidos: " + err.Error())
	}
	return validators.ValidateStruct(dst)
}

func paramID(c *gin.Context) (primitive.ObjectID, error) {
	return validators.ParseObjectID(c.Param("id"))
}

func optionalID(hex string) *primitive.ObjectID {
	if hex == "" {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &oid
}

// selfOrStaff lets staff through and any other role only on its own record.
func selfOrStaff(actor models.Actor, id primitive.ObjectID) error {
	if actor.Role.IsStaff() || actor.ID == id {
		return nil
	}
	return utils.Forbidden()
}

// readUpload returns the bytes of the multipart file under field, reading at
// most limit+1 bytes so oversized files are rejected without buffering them.
func readUpload(c *gin.Context, field string, limit int64) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, utils.Validation(map[string]string{field: "Debe adjuntar una imagen"})
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit+1))
}

func actorOf(c *gin.Context) models.Actor {
	return middleware.GetActor(c)
}
