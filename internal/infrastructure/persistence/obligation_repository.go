package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/repairflow/backend/internal/domain/ledger"
	"github.com/repairflow/backend/internal/domain/shared"
	"github.com/repairflow/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormObligationRepository implements ObligationRepository using GORM
type GormObligationRepository struct {
	db *gorm.DB
}

// NewGormObligationRepository creates a new GormObligationRepository
func NewGormObligationRepository(db *gorm.DB) *GormObligationRepository {
	return &GormObligationRepository{db: db}
}

// FindByID finds an obligation by its ID
func (r *GormObligationRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Obligation, error) {
	var model models.ObligationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOutstandingByParty finds unpaid obligations for a party, oldest first.
// The created_at ordering is what makes settlement allocate oldest debt first.
func (r *GormObligationRepository) FindOutstandingByParty(ctx context.Context, party string) ([]ledger.Obligation, error) {
	var obligationModels []models.ObligationModel
	if err := r.db.WithContext(ctx).
		Where("party = ? AND status IN ?", party,
			[]ledger.ObligationStatus{ledger.ObligationStatusPending, ledger.ObligationStatusPartial}).
		Order("created_at ASC").
		Find(&obligationModels).Error; err != nil {
		return nil, err
	}
	return toDomainObligations(obligationModels), nil
}

// FindByParty finds obligations for a party with filtering
func (r *GormObligationRepository) FindByParty(ctx context.Context, party string, filter ledger.ObligationFilter) ([]ledger.Obligation, error) {
	var obligationModels []models.ObligationModel
	query := r.db.WithContext(ctx).Model(&models.ObligationModel{}).
		Where("party = ?", party)
	query = r.applyObligationFilter(query, filter)

	if err := query.Find(&obligationModels).Error; err != nil {
		return nil, err
	}
	return toDomainObligations(obligationModels), nil
}

// FindAll finds all obligations with filtering
func (r *GormObligationRepository) FindAll(ctx context.Context, filter ledger.ObligationFilter) ([]ledger.Obligation, error) {
	var obligationModels []models.ObligationModel
	query := r.db.WithContext(ctx).Model(&models.ObligationModel{})
	query = r.applyObligationFilter(query, filter)

	if err := query.Find(&obligationModels).Error; err != nil {
		return nil, err
	}
	return toDomainObligations(obligationModels), nil
}

// Save creates or updates an obligation
func (r *GormObligationRepository) Save(ctx context.Context, obligation *ledger.Obligation) error {
	model := models.ObligationModelFromDomain(obligation)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormObligationRepository) SaveWithLock(ctx context.Context, obligation *ledger.Obligation) error {
	model := models.ObligationModelFromDomain(obligation)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", obligation.ID, obligation.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The record has been modified by another transaction")
	}
	return nil
}

// Delete removes an obligation
func (r *GormObligationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ObligationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts obligations matching the filter
func (r *GormObligationRepository) Count(ctx context.Context, filter ledger.ObligationFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ObligationModel{})
	query = r.applyObligationFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumRemainingByParty calculates the total due for one party
func (r *GormObligationRepository) SumRemainingByParty(ctx context.Context, party string) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ObligationModel{}).
		Select("COALESCE(SUM(remaining_amount), 0) as total").
		Where("party = ?", party).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// TotalsByParty aggregates obligated/paid/remaining per party in one query
func (r *GormObligationRepository) TotalsByParty(ctx context.Context) ([]ledger.PartyTotals, error) {
	var rows []struct {
		Party           string
		TotalObligated  decimal.Decimal
		TotalPaid       decimal.Decimal
		TotalRemaining  decimal.Decimal
		ObligationCount int
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ObligationModel{}).
		Select("party, " +
			"COALESCE(SUM(amount), 0) as total_obligated, " +
			"COALESCE(SUM(paid_amount), 0) as total_paid, " +
			"COALESCE(SUM(remaining_amount), 0) as total_remaining, " +
			"COUNT(*) as obligation_count").
		Group("party").
		Order("party ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make([]ledger.PartyTotals, len(rows))
	for i, row := range rows {
		totals[i] = ledger.PartyTotals{
			Party:           row.Party,
			TotalObligated:  row.TotalObligated,
			TotalPaid:       row.TotalPaid,
			TotalRemaining:  row.TotalRemaining,
			ObligationCount: row.ObligationCount,
		}
	}
	return totals, nil
}

// applyObligationFilter applies filtering and pagination options to a query
func (r *GormObligationRepository) applyObligationFilter(query *gorm.DB, filter ledger.ObligationFilter) *gorm.DB {
	query = r.applyObligationFilterWithoutPagination(query, filter)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 1 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}
	query = query.Order(orderClause(filter.Filter, obligationSortColumns))

	return query
}

// obligationSortColumns are the columns callers may sort obligations by.
// Anything else falls back to created_at to keep raw input out of the
// ORDER BY clause.
var obligationSortColumns = map[string]bool{
	"created_at":       true,
	"updated_at":       true,
	"party":            true,
	"amount":           true,
	"remaining_amount": true,
	"status":           true,
}

// applyObligationFilterWithoutPagination applies only the filtering options
func (r *GormObligationRepository) applyObligationFilterWithoutPagination(query *gorm.DB, filter ledger.ObligationFilter) *gorm.DB {
	if filter.Party != nil {
		query = query.Where("party = ?", *filter.Party)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	return query
}

func toDomainObligations(obligationModels []models.ObligationModel) []ledger.Obligation {
	obligations := make([]ledger.Obligation, len(obligationModels))
	for i, model := range obligationModels {
		obligations[i] = *model.ToDomain()
	}
	return obligations
}

// Ensure GormObligationRepository implements ObligationRepository
var _ ledger.ObligationRepository = (*GormObligationRepository)(nil)
