package utils

import "time"

const (
	AppName    = "Fletes"
	AppVersion = "1.0.0"

	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	MaxImageSize = 5 * 1024 * 1024

	JWTAccessTokenTTL = 24 * time.Hour

	// gin context keys set by the auth middleware
	ContextUserID    = "user_id"
	ContextRole      = "role"
	ContextTokenID   = "token_id"
	ContextTokenExp  = "token_exp"
	ContextRequestID = "request_id"
)

// Response messages
const (
	MsgOK                  = "OK"
	MsgCreated             = "Registro creado correctamente"
	MsgUpdated             = "Registro actualizado correctamente"
	MsgDeleted             = "Registro eliminado correctamente"
	MsgLoggedIn            = "Sesión iniciada"
	MsgLoggedOut           = "Sesión cerrada"
	ErrValidationFailed    = "Datos inválidos"
	ErrInvalidIDMessage    = "ID inválido"
	ErrDuplicateMessage    = "Ya existe un registro con ese valor"
	ErrInternalServer      = "Error interno del servidor"
	ErrUnauthorizedMessage = "No autorizado"
	ErrForbiddenMessage    = "No tiene permisos para esta acción"
	ErrConflictMessage     = "El registro fue modificado por otra operación, intente nuevamente"
)
