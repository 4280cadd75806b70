package errors

import "errors"

var (
	ErrUserNotFound       = errors.New("пользователь не найден")
	ErrTaskNotFound       = errors.New("задача не найдена")
	ErrInvalidCredentials = errors.New("неверные учетные данные")
	ErrEmailTaken         = errors.New("email уже используется")
	ErrInvalidInput       = errors.New("некорректные входные данные")
	ErrDatabaseConnection = errors.New("ошибка соединения с базой данных")
	ErrValidationFailed   = errors.New("ошибка валидации")
	ErrUnauthorized       = errors.New("требуется аутентификация")
	ErrForbidden          = errors.New("доступ запрещён")
	ErrInternalServer     = errors.New("внутренняя ошибка сервера")
	ErrBadRequest         = errors.New("неверный запрос")
	ErrNotFound           = errors.New("ресурс не найден")

	ErrInvalidToken  = errors.New("недействительный или просроченный токен")
	ErrMissingToken  = errors.New("токен не предоставлен")
	ErrEmptySecret   = errors.New("не задан секрет для подписи токенов")
	ErrInvalidClaims = errors.New("некорректные данные токена")

	ErrInvalidEmail       = errors.New("некорректный email")
	ErrInvalidPassword    = errors.New("некорректный пароль")
	ErrInvalidName        = errors.New("некорректное имя пользователя")
	ErrInvalidRole        = errors.New("недопустимая роль пользователя")
	ErrInvalidStatus      = errors.New("недопустимый статус задачи")
	ErrInvalidTitle       = errors.New("некорректный заголовок задачи")
	ErrInvalidDescription = errors.New("некорректное описание задачи")

	ErrConfigFileReadFailed = errors.New("не удалось прочитать файл конфигурации")
	ErrConfigParseFailed    = errors.New("не удалось разобрать файл конфигурации")
	ErrConfigInvalidFormat  = errors.New("некорректный формат значения")
)
