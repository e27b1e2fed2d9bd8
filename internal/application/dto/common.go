package dto

// ErrorResponse cuerpo de error HTTP (consola local y backend de desarrollo).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RefDTO referencia por ID a otra entidad ({"id": 1}).
type RefDTO struct {
	ID int64 `json:"id"`
}
