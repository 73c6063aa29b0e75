package room

import (
	"errors"

	"github.com/ryos-app/ryos-server/domain/model"
)

func errorsIsNotFound(err error) bool {
	return errors.Is(err, model.ErrRoomNotFound) || errors.Is(err, model.ErrUserNotFound)
}
