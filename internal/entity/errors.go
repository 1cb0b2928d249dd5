package entity

import "errors"

var (
	ErrNotFound  = errors.New("registro não encontrado")
	ErrDuplicate = errors.New("registro já existe")
)
