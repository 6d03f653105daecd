package book_appointment

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден
	ErrDoctorNotFound = errors.New("book_appointment: doctor not found")

	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = errors.New("book_appointment: patient not found")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("book_appointment: invalid appointment date")

	// ErrDateUnavailable возвращается, когда дата целиком закрыта врачом
	ErrDateUnavailable = errors.New("book_appointment: doctor is unavailable on this date")

	// ErrInvalidTimeSlot возвращается, когда время не входит в слот-сетку врача
	ErrInvalidTimeSlot = errors.New("book_appointment: invalid time slot")

	// ErrSlotNotAvailable возвращается, когда слот занят или заблокирован
	// на момент записи (в том числе при проигрыше гонки за последний слот)
	ErrSlotNotAvailable = errors.New("book_appointment: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
)
