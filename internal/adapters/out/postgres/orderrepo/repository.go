package orderrepo

import (
	"context"
	"errors"
	"log/slog"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db       *gorm.DB
	lockRows bool
	logger   *slog.Logger
}

// NewGormOrderRepository creates a new GORM order repository.
// With lockRows set, Get takes a FOR UPDATE lock; use it only on a transaction handle.
func NewGormOrderRepository(db *gorm.DB, lockRows bool, logger *slog.Logger) *GormOrderRepository {
	return &GormOrderRepository{
		db:       db,
		lockRows: lockRows,
		logger:   logger.With("component", "order_repository"),
	}
}

// Add saves a new order to the database.
// A duplicate id is reported as a ValueIsInvalidError when the connection was opened
// with gorm.Config.TranslateError.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewValueIsInvalidErrorWithCause("order id", err)
		}
		return err
	}

	return nil
}

// Update writes the courier, status and cancellation reason of an existing order.
// The columns are selected explicitly so that clearing the courier is persisted.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("courier_id", "status", "cancellation_reason").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx)
	if r.lockRows {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto OrderDTO
	if err := q.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Find retrieves the orders matching filter, oldest first, ties broken by id.
// Rows that do not form a valid order are logged and left out of the result.
func (r *GormOrderRepository) Find(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	q := r.db.WithContext(ctx).Model(&OrderDTO{})

	if len(filter.Statuses) > 0 {
		statuses := make([]int, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, int(s))
		}
		q = q.Where("status IN ?", statuses)
	}

	switch filter.Assignment {
	case ports.Unassigned:
		q = q.Where("courier_id IS NULL")
	case ports.Assigned:
		q = q.Where("courier_id IS NOT NULL")
	case ports.AnyAssignment:
	}

	if filter.CourierID != nil {
		q = q.Where("courier_id = ?", filter.CourierID.Bytes())
	}

	var dtos []OrderDTO
	if err := q.Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			r.logger.WarnContext(ctx, "Skipping malformed order row",
				"order_id", dto.ID.String(),
				"status", dto.Status,
				"error", err)
			continue
		}
		orders = append(orders, o)
	}

	return orders, nil
}
