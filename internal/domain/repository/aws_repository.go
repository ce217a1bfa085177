package repository

import (
	"context"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
)

// AWSRepository defines the interface for AWS API interactions.
type AWSRepository interface {
	// Identity
	GetAccountID(ctx context.Context) (string, error)

	// Cost Operations
	GetCostAndUsageByService(ctx context.Context, dateRange entity.DateRange) ([]entity.PeriodResult, error)

	// Budget Operations
	GetBudgets(ctx context.Context) ([]entity.BudgetInfo, error)
}
