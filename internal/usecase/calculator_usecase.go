package usecase

import (
	"context"

	"github.com/iho/chitledger/internal/domain"
)

// CalculatorUseCase serves payout estimates. It has no side effects.
type CalculatorUseCase struct {
	groupRepo GroupRepository
	limits    domain.GroupLimits
}

func NewCalculatorUseCase(groupRepo GroupRepository, limits domain.GroupLimits) *CalculatorUseCase {
	return &CalculatorUseCase{groupRepo: groupRepo, limits: limits}
}

// Estimate computes the split for explicit input under the default limits.
func (uc *CalculatorUseCase) Estimate(in domain.CalculatorInput) (*domain.CalculatorResult, error) {
	return domain.Calculate(in, uc.limits)
}

// EstimateForGroup computes the split from a group's stored rules and limits.
func (uc *CalculatorUseCase) EstimateForGroup(ctx context.Context, groupID string) (*domain.CalculatorResult, error) {
	if uc.groupRepo == nil {
		return nil, domain.ErrGroupNotFound
	}
	group, err := uc.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return group.Split()
}
