package service

import (
	"errors"
	"fmt"
)

// ErrAnalysisInProgress indica que otra instancia ya esta analizando al mismo usuario.
var ErrAnalysisInProgress = errors.New("analysis already in progress")

// DataAccessError marca una falla de un colaborador (habitos, registros, categorias o perfiles).
// A diferencia de la falta de datos, aborta la corrida.
type DataAccessError struct {
	Source string
	Err    error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access %s: %v", e.Source, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}
