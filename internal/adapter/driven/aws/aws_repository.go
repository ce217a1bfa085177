package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/shopspring/decimal"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/domain/repository"
)

const (
	// Cost Explorer and Budgets are global services served from us-east-1.
	billingRegion = "us-east-1"
	costMetric    = "UnblendedCost"
)

// Record types that make up the usage bill; credits, refunds and taxes are left out.
var usageRecordTypes = []string{"Usage", "Out-of-cycle Charge"}

type costExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type budgetsAPI interface {
	DescribeBudgets(ctx context.Context, params *budgets.DescribeBudgetsInput, optFns ...func(*budgets.Options)) (*budgets.DescribeBudgetsOutput, error)
}

// AWSRepositoryImpl implementa o AWSRepository sobre clientes construídos uma única vez.
type AWSRepositoryImpl struct {
	profile string
	ce      costExplorerAPI
	sts     stsAPI
	budgets budgetsAPI
}

// NewAWSRepository loads the credential chain for the profile (or the ambient one when the
// profile is empty) and builds the service clients.
func NewAWSRepository(ctx context.Context, profile string) (repository.AWSRepository, error) {
	cfg, err := loadAWSConfig(ctx, profile)
	if err != nil {
		return nil, err
	}

	billingCfg := cfg.Copy()
	billingCfg.Region = billingRegion

	return &AWSRepositoryImpl{
		profile: profile,
		ce:      costexplorer.NewFromConfig(billingCfg),
		sts:     sts.NewFromConfig(billingCfg),
		budgets: budgets.NewFromConfig(billingCfg),
	}, nil
}

func loadAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	var optFns []func(*config.LoadOptions) error
	if profile != "" {
		optFns = append(optFns, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		if profile == "" {
			return aws.Config{}, fmt.Errorf("failed to load default AWS config: %w", err)
		}
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}
	return cfg, nil
}

func (r *AWSRepositoryImpl) GetAccountID(ctx context.Context) (string, error) {
	result, err := r.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		if r.profile != "" {
			return "", fmt.Errorf("error getting account ID for profile %s: %w", r.profile, err)
		}
		return "", fmt.Errorf("error getting account ID: %w", err)
	}
	return aws.ToString(result.Account), nil
}

// GetCostAndUsageByService returns the monthly unblended usage cost grouped by service.
// Every page of the answer is read; a period split across pages appears more than once.
func (r *AWSRepositoryImpl) GetCostAndUsageByService(ctx context.Context, dateRange entity.DateRange) ([]entity.PeriodResult, error) {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(dateRange.StartString()),
			End:   aws.String(dateRange.EndString()),
		},
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{costMetric},
		GroupBy: []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
		Filter: &ceTypes.Expression{
			Dimensions: &ceTypes.DimensionValues{
				Key:    ceTypes.DimensionRecordType,
				Values: usageRecordTypes,
			},
		},
	}

	var results []entity.PeriodResult
	for {
		output, err := r.ce.GetCostAndUsage(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("error getting cost and usage for %s: %w", dateRange, err)
		}

		for _, byTime := range output.ResultsByTime {
			result, err := toPeriodResult(byTime)
			if err != nil {
				return nil, err
			}
			results = append(results, result)
		}

		if aws.ToString(output.NextPageToken) == "" {
			break
		}
		input.NextPageToken = output.NextPageToken
	}

	return results, nil
}

func toPeriodResult(byTime ceTypes.ResultByTime) (entity.PeriodResult, error) {
	var result entity.PeriodResult
	if byTime.TimePeriod != nil {
		result.Period = entity.BillingPeriod{
			Start: aws.ToString(byTime.TimePeriod.Start),
			End:   aws.ToString(byTime.TimePeriod.End),
		}
	}

	for _, group := range byTime.Groups {
		metric, ok := group.Metrics[costMetric]
		if !ok {
			continue
		}
		amount, err := decimal.NewFromString(aws.ToString(metric.Amount))
		if err != nil {
			return entity.PeriodResult{}, fmt.Errorf("invalid %s amount %q for %v in period %s: %w",
				costMetric, aws.ToString(metric.Amount), group.Keys, result.Period.Start, err)
		}
		result.Groups = append(result.Groups, entity.GroupAmount{
			Keys:   group.Keys,
			Amount: amount,
		})
	}

	return result, nil
}

func (r *AWSRepositoryImpl) GetBudgets(ctx context.Context) ([]entity.BudgetInfo, error) {
	accountID, err := r.GetAccountID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := r.budgets.DescribeBudgets(ctx, &budgets.DescribeBudgetsInput{
		AccountId: aws.String(accountID),
	})
	if err != nil {
		return nil, fmt.Errorf("error describing budgets for account %s: %w", accountID, err)
	}

	budgetsData := []entity.BudgetInfo{}
	for _, budget := range result.Budgets {
		b := entity.BudgetInfo{Name: aws.ToString(budget.BudgetName)}
		if budget.BudgetLimit != nil {
			b.Limit = parseAmount(budget.BudgetLimit.Amount)
		}
		if budget.CalculatedSpend != nil {
			if budget.CalculatedSpend.ActualSpend != nil {
				b.Actual = parseAmount(budget.CalculatedSpend.ActualSpend.Amount)
			}
			if budget.CalculatedSpend.ForecastedSpend != nil {
				b.Forecast = parseAmount(budget.CalculatedSpend.ForecastedSpend.Amount)
			}
		}
		budgetsData = append(budgetsData, b)
	}

	return budgetsData, nil
}

// parseAmount reads a budget amount; budgets are informational, so malformed values read as zero.
func parseAmount(amount *string) decimal.Decimal {
	d, err := decimal.NewFromString(aws.ToString(amount))
	if err != nil {
		return decimal.Zero
	}
	return d
}
