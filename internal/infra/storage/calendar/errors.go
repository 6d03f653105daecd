package calendar

import "errors"

var (
	// ErrCalendarNotFound возвращается, когда у врача нет ни одной записи календаря.
	// Вызывающий код трактует отсутствие календаря как полностью открытое расписание.
	ErrCalendarNotFound = errors.New("calendar.repository: calendar not found")

	// ErrTransaction возвращается при ошибках работы с транзакцией
	ErrTransaction = errors.New("calendar.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("calendar.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("calendar.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("calendar.repository: failed to scan row")
)
