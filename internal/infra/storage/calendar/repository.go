package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	"github.com/carewell/CW-AppointmentService/pkg/dbmetrics"
	"github.com/carewell/CW-AppointmentService/pkg/psqlbuilder"
	"github.com/carewell/CW-AppointmentService/pkg/types"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий календаря врача.
// Календарь хранится в трёх таблицах: целиком закрытые даты,
// заблокированные интервалы внутри открытых дат и слот-сетка врача.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByDoctorID собирает календарь врача из всех трёх таблиц.
// Врач без единой записи получает пустой (полностью открытый) календарь -
// отсутствие данных не является ошибкой.
func (r *Repository) GetByDoctorID(ctx context.Context, doctorID int64) (*domain.DoctorCalendar, error) {
	cal := domain.NewDoctorCalendar(doctorID)

	if err := r.loadUnavailableDates(ctx, cal); err != nil {
		return nil, err
	}
	if err := r.loadUnavailableRanges(ctx, cal); err != nil {
		return nil, err
	}
	if err := r.loadSlotGrid(ctx, cal); err != nil {
		return nil, err
	}

	return cal, nil
}

// loadUnavailableDates загружает целиком закрытые даты
func (r *Repository) loadUnavailableDates(ctx context.Context, cal *domain.DoctorCalendar) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("unavailable_date", "reason").
		From("doctor_unavailable_dates").
		Where(squirrel.Eq{"doctor_id": cal.DoctorID}).
		OrderBy("unavailable_date ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadUnavailableDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadUnavailableDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var date time.Time
		var reason string
		if err := rows.Scan(&date, &reason); err != nil {
			return fmt.Errorf("%w: loadUnavailableDates - scan row: %v", ErrScanRow, err)
		}
		cal.UnavailableDates[domain.DateKey(date)] = reason
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadUnavailableDates - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// loadUnavailableRanges загружает заблокированные интервалы по датам
func (r *Repository) loadUnavailableRanges(ctx context.Context, cal *domain.DoctorCalendar) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("range_date", "start_time", "end_time", "reason").
		From("doctor_unavailable_ranges").
		Where(squirrel.Eq{"doctor_id": cal.DoctorID}).
		OrderBy("range_date ASC, start_time ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadUnavailableRanges - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadUnavailableRanges - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var date time.Time
		var rng domain.TimeRange
		if err := rows.Scan(&date, &rng.Start, &rng.End, &rng.Reason); err != nil {
			return fmt.Errorf("%w: loadUnavailableRanges - scan row: %v", ErrScanRow, err)
		}
		key := domain.DateKey(date)
		cal.UnavailableRanges[key] = append(cal.UnavailableRanges[key], rng)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadUnavailableRanges - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// loadSlotGrid загружает слот-сетку врача (пустая сетка = дефолтная)
func (r *Repository) loadSlotGrid(ctx context.Context, cal *domain.DoctorCalendar) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("start_time").
		From("doctor_slot_grids").
		Where(squirrel.Eq{"doctor_id": cal.DoctorID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadSlotGrid - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadSlotGrid - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot types.TimeString
		if err := rows.Scan(&slot); err != nil {
			return fmt.Errorf("%w: loadSlotGrid - scan row: %v", ErrScanRow, err)
		}
		cal.BookableSlots = append(cal.BookableSlots, slot)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadSlotGrid - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// Replace целиком заменяет календарь врача.
// Вызывается внутри транзакции (service оборачивает в txManager.Do),
// чтобы читатели не видели наполовину обновлённый календарь.
func (r *Repository) Replace(ctx context.Context, cal *domain.DoctorCalendar) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, table := range []string{"doctor_unavailable_dates", "doctor_unavailable_ranges", "doctor_slot_grids"} {
		query, args, err := psqlbuilder.Delete(table).
			Where(squirrel.Eq{"doctor_id": cal.DoctorID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Replace - build delete query for %s: %v", ErrBuildQuery, table, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: Replace - execute delete for %s: %v", ErrExecQuery, table, err)
		}
	}

	if len(cal.UnavailableDates) > 0 {
		insertBuilder := psqlbuilder.Insert("doctor_unavailable_dates").
			Columns("doctor_id", "unavailable_date", "reason")
		for dateKey, reason := range cal.UnavailableDates {
			date, err := time.Parse(domain.DateFormat, dateKey)
			if err != nil {
				return fmt.Errorf("%w: Replace - invalid date key %q: %v", ErrBuildQuery, dateKey, err)
			}
			insertBuilder = insertBuilder.Values(cal.DoctorID, date, reason)
		}

		query, args, err := insertBuilder.ToSql()
		if err != nil {
			return fmt.Errorf("%w: Replace - build dates insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: Replace - execute dates insert: %v", ErrExecQuery, err)
		}
	}

	if len(cal.UnavailableRanges) > 0 {
		insertBuilder := psqlbuilder.Insert("doctor_unavailable_ranges").
			Columns("doctor_id", "range_date", "start_time", "end_time", "reason")
		for dateKey, ranges := range cal.UnavailableRanges {
			date, err := time.Parse(domain.DateFormat, dateKey)
			if err != nil {
				return fmt.Errorf("%w: Replace - invalid range date key %q: %v", ErrBuildQuery, dateKey, err)
			}
			for _, rng := range ranges {
				insertBuilder = insertBuilder.Values(cal.DoctorID, date, rng.Start, rng.End, rng.Reason)
			}
		}

		query, args, err := insertBuilder.ToSql()
		if err != nil {
			return fmt.Errorf("%w: Replace - build ranges insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: Replace - execute ranges insert: %v", ErrExecQuery, err)
		}
	}

	if len(cal.BookableSlots) > 0 {
		insertBuilder := psqlbuilder.Insert("doctor_slot_grids").
			Columns("doctor_id", "position", "start_time")
		for i, slot := range cal.BookableSlots {
			insertBuilder = insertBuilder.Values(cal.DoctorID, i, slot)
		}

		query, args, err := insertBuilder.ToSql()
		if err != nil {
			return fmt.Errorf("%w: Replace - build grid insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: Replace - execute grid insert: %v", ErrExecQuery, err)
		}
	}

	return nil
}
