package services

import "errors"

// Erros sentinela do núcleo. Controllers mapeiam para status HTTP com
// errors.Is; os serviços embrulham com fmt.Errorf("%w: ...") para dar
// contexto sem perder a classificação.
var (
	// ErrNotFound cobre também falha de posse: dizer "não é seu" revelaria
	// que o registro existe.
	ErrNotFound = errors.New("registro não encontrado")

	// ErrValidation é entrada malformada barrada antes de qualquer escrita.
	ErrValidation = errors.New("entrada inválida")

	// ErrInvalidState é uma transição fora do ciclo de vida permitido
	// (ex: renovar solicitação cancelada, renovar fora da janela).
	ErrInvalidState = errors.New("transição de estado inválida")
)
