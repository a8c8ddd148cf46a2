package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/returns"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/orderdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReturnRepository implements returns.Repository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByID finds a return request by its ID, lines included
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.ReturnRequest, error) {
	var model models.ReturnRequestModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderID finds all return requests for an order
func (r *GormReturnRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]returns.ReturnRequest, error) {
	var rows []models.ReturnRequestModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	requests := make([]returns.ReturnRequest, len(rows))
	for i := range rows {
		requests[i] = *rows[i].ToDomain()
	}
	return requests, nil
}

// FindAll finds return requests matching the filter
func (r *GormReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]returns.ReturnRequest, error) {
	var rows []models.ReturnRequestModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ReturnRequestModel{}).Preload("Lines"),
		filter,
	)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	requests := make([]returns.ReturnRequest, len(rows))
	for i := range rows {
		requests[i] = *rows[i].ToDomain()
	}
	return requests, nil
}

// Count counts return requests matching the filter
func (r *GormReturnRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ReturnRequestModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists a return request and its lines
func (r *GormReturnRepository) Save(ctx context.Context, request *returns.ReturnRequest) error {
	model := models.ReturnRequestModelFromDomain(request)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := model.Lines
		model.Lines = nil
		if err := tx.Omit("Lines").Save(model).Error; err != nil {
			return err
		}

		// Return lines are never removed once filed, so a plain upsert of
		// the current set is enough.
		for i := range lines {
			lines[i].ReturnID = model.ID
			if err := tx.Save(&lines[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// SumReturnedPiecesByOrderLine returns, per order line of the given order,
// the pieces already covered by pending or approved returns. Rejected
// requests do not count against the returnable quantity.
func (r *GormReturnRepository) SumReturnedPiecesByOrderLine(ctx context.Context, orderID uuid.UUID) (map[uuid.UUID]int64, error) {
	type lineSum struct {
		OrderLineID uuid.UUID
		Total       int64
	}

	var sums []lineSum
	if err := r.db.WithContext(ctx).
		Model(&models.ReturnLineModel{}).
		Select("return_lines.order_line_id AS order_line_id, SUM(return_lines.pieces_returned) AS total").
		Joins("JOIN return_requests ON return_requests.id = return_lines.return_id").
		Where("return_requests.order_id = ? AND return_requests.status != ?", orderID, returns.StatusRejected).
		Group("return_lines.order_line_id").
		Scan(&sums).Error; err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]int64, len(sums))
	for _, s := range sums {
		result[s.OrderLineID] = s.Total
	}
	return result, nil
}

// ExistsByReturnNumber checks if a return number exists
func (r *GormReturnRepository) ExistsByReturnNumber(ctx context.Context, returnNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ReturnRequestModel{}).
		Where("return_number = ?", returnNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateReturnNumber generates a unique return number
// Format: RET-YYYY-NNNNN (e.g., RET-2026-00001)
func (r *GormReturnRepository) GenerateReturnNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("RET-%d-", year)

	// Get the highest return number for this year
	var lastRequest models.ReturnRequestModel
	err := r.db.WithContext(ctx).
		Model(&models.ReturnRequestModel{}).
		Where("return_number LIKE ?", prefix+"%").
		Order("return_number DESC").
		First(&lastRequest).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastRequest.ReturnNumber != "" {
		parts := strings.Split(lastRequest.ReturnNumber, "-")
		if len(parts) == 3 {
			var num int64
			_, parseErr := fmt.Sscanf(parts[2], "%d", &num)
			if parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	returnNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	// Verify uniqueness
	exists, err := r.ExistsByReturnNumber(ctx, returnNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			returnNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByReturnNumber(ctx, returnNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
		if exists {
			return "", shared.NewDomainError("NUMBER_GENERATION_FAILED", "Unable to generate a unique return number")
		}
	}

	return returnNumber, nil
}

// applyFilter applies filter options to the query
func (r *GormReturnRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		// Default ordering
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReturnRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("return_number ILIKE ?", searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		}
	}

	return query
}

// Ensure GormReturnRepository implements returns.Repository
var _ returns.Repository = (*GormReturnRepository)(nil)
