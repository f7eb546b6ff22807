package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/arwindpianist/showcase/internal/entity"
)

var (
	ErrNotFound  = gorm.ErrRecordNotFound
	ErrDuplicate = gorm.ErrDuplicatedKey
)

func translate(err error) error {
	if errors.Is(err, ErrNotFound) {
		return entity.ErrNotFound
	}
	return err
}
