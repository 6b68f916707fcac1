// Package orderrepo provides the GORM persistence of the order aggregate and the
// mapping between the aggregate and its table row.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The status and courier columns are indexed for the scheduler's two queries.
type OrderDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CourierID          *uuid.UUID `gorm:"type:uuid;index"`
	Status             int        `gorm:"index;not null"`
	CancellationReason string     `gorm:"type:text;not null;default:''"`
	CreatedAt          time.Time  `gorm:"autoCreateTime;index"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
// CreatedAt is left zero so GORM fills it on insert.
func fromDomain(o *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := o.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	return OrderDTO{
		ID:                 o.ID().Bytes(),
		CourierID:          courierID,
		Status:             int(o.Status()),
		CancellationReason: o.CancellationReason(),
	}
}

// toDomain converts a database DTO to an order domain aggregate through RestoreOrder,
// so rows breaking the aggregate invariants are reported instead of loaded.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}

		courierID = &cID
	}

	return order.RestoreOrder(id, order.Status(dto.Status), courierID, dto.CancellationReason)
}
