package usecase

import "errors"

// Códigos usados pelo core. Handlers mapeiam DomainError -> 4xx e
// TechnicalError -> 5xx.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeLeadNotFound = "LEAD_NOT_FOUND"
	CodeInvalidStage = "INVALID_STAGE"
	CodeDatabase     = "DATABASE_ERROR"
)

// DomainError é culpa do chamador (input inválido, lead inexistente).
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// TechnicalError é culpa da infraestrutura (banco fora, fila fora).
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
