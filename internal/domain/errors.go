package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrEventNotFound     = errors.New("мероприятие не найдено")
	ErrCityNotFound      = errors.New("город не найден")
	ErrUserNotFound      = errors.New("пользователь не найден")
	ErrAlreadyRegistered = errors.New("пользователь уже зарегистрирован на мероприятие")
	ErrNotRegistered     = errors.New("пользователь не зарегистрирован на мероприятие")
)

// CapacityError rejects a registration or a participant-count change that
// would push the event past its capacity cap. Available is the number of
// slots still free at the moment of the check.
type CapacityError struct {
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("недостаточно мест (доступно: %d)", e.Available)
}
