package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrUsernameTaken      = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrReasonRequired     = errors.New("motivo obligatorio")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrNegativeStock      = errors.New("el stock resultante sería negativo")
	ErrNoChange           = errors.New("sin cambios")
	ErrArchived           = errors.New("producto archivado")
	// ErrAuthorizationDenied señala un veto silencioso de la capa de
	// persistencia: el UPDATE no falló pero reportó cero filas afectadas.
	// Se distingue de ErrForbidden (rechazo explícito de la aplicación).
	ErrAuthorizationDenied = errors.New("actualización vetada por la política de la base")
)
