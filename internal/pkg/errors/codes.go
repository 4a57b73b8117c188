package errors

import "net/http"

const (
	CodeNetworkFailure = "NETWORK_FAILURE"
	CodeStoreRejection = "STORE_REJECTION"
	CodeInvalidInput   = "INVALID_INPUT"
)

var (
	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrBuildingNotFound = New(
		"BUILDING_NOT_FOUND",
		"Building not found",
		http.StatusNotFound,
	)

	ErrNoSelection = New(
		"NO_SELECTION",
		"No building is selected",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)

var (
	// ErrNoPendingCoordinates - подтверждение без выбранной точки
	ErrNoPendingCoordinates = NewValidation(
		"NO_PENDING_COORDINATES",
		"Нужны координаты: кликни по карте",
	)

	// ErrEmptyAddress - создание по адресу без адреса
	ErrEmptyAddress = NewValidation(
		"EMPTY_ADDRESS",
		"Введи адрес",
	)

	// ErrEmptyReportText - жалоба без текста
	ErrEmptyReportText = NewValidation(
		"EMPTY_REPORT_TEXT",
		"Текст жалобы не может быть пустым",
	)

	// ErrRelocationBlocked - перенос метки дома, у которого уже есть жалобы
	ErrRelocationBlocked = NewValidation(
		"RELOCATION_BLOCKED",
		"Перенос отключён - у дома уже есть жалобы",
	)

	// ErrHelpFormIncomplete - форма запроса помощи заполнена не целиком
	ErrHelpFormIncomplete = NewValidation(
		"HELP_FORM_INCOMPLETE",
		"Укажите дом, заголовок, описание и контакт для связи",
	)
)
