package dto_test

import (
	"testing"

	"wisma/shared/dto"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
	}{
		{
			name: "eq operator",
			filter: dto.Filter{
				Field:    "status",
				Operator: dto.FilterOperatorEq,
				Value:    "pending",
				Table:    "bookings",
			},
			wantWhere: "bookings.status = :status",
		},
		{
			name: "strict less operator",
			filter: dto.Filter{
				Field:    "check_in",
				Operator: dto.FilterOperatorLess,
				Value:    "2026-01-10",
				Table:    "bookings",
			},
			wantWhere: "bookings.check_in < :check_in",
		},
		{
			name: "strict greater operator",
			filter: dto.Filter{
				Field:    "check_out",
				Operator: dto.FilterOperatorGreater,
				Value:    "2026-01-10",
				Table:    "bookings",
			},
			wantWhere: "bookings.check_out > :check_out",
		},
		{
			name: "less_eq operator",
			filter: dto.Filter{
				Field:    "price",
				Operator: dto.FilterOperatorLessEq,
				Value:    500000,
				Table:    "rooms",
			},
			wantWhere: "rooms.price <= :price",
		},
		{
			name: "greater_eq operator",
			filter: dto.Filter{
				Field:    "capacity",
				Operator: dto.FilterOperatorGreaterEq,
				Value:    2,
				Table:    "rooms",
			},
			wantWhere: "rooms.capacity >= :capacity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			if where != tt.wantWhere {
				t.Errorf("expected where clause %q, got %q", tt.wantWhere, where)
			}

			if len(args) != 1 {
				t.Errorf("expected one bound argument, got %d", len(args))
			}
		})
	}
}
