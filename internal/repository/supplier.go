package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/festo/gala/api/internal/database"
	"github.com/festo/gala/api/internal/model"
)

// SupplierRepository handles supplier onboarding and identity data access
type SupplierRepository struct {
	db database.Database
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db database.Database) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// Create registers a new supplier record in pending review
func (r *SupplierRepository) Create(ctx context.Context, supplier *model.Supplier) error {
	query := `
		CREATE supplier CONTENT {
			user_id: $user_id,
			business_name: $business_name,
			description: $description,
			service_count: $service_count,
			account_status: $account_status,
			identity_status: $identity_status,
			identity_document_ids: $identity_document_ids,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id":               supplier.UserID,
		"business_name":         supplier.BusinessName,
		"description":           supplier.Description,
		"service_count":         supplier.ServiceCount,
		"account_status":        supplier.AccountStatus,
		"identity_status":       supplier.IdentityStatus,
		"identity_document_ids": supplier.IdentityDocumentIDs,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return database.ErrDuplicate
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	supplier.ID = created.ID
	supplier.CreatedOn = created.CreatedOn
	supplier.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByUserID retrieves the supplier record for a user
func (r *SupplierRepository) GetByUserID(ctx context.Context, userID string) (*model.Supplier, error) {
	query := `SELECT * FROM supplier WHERE user_id = $user_id LIMIT 1`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseSupplierResult(result)
}

// GetByID retrieves a supplier record by its record ID
func (r *SupplierRepository) GetByID(ctx context.Context, id string) (*model.Supplier, error) {
	query := `SELECT * FROM supplier WHERE id = type::record($id) LIMIT 1`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseSupplierResult(result)
}

// ListByAccountStatus lists suppliers in a given onboarding state, oldest
// first so review queues drain fairly
func (r *SupplierRepository) ListByAccountStatus(ctx context.Context, status model.SupplierAccountStatus, limit, offset int) ([]*model.Supplier, error) {
	query := `
		SELECT * FROM supplier
		WHERE account_status = $status
		ORDER BY created_on ASC
		LIMIT $limit START $offset
	`
	vars := map[string]interface{}{
		"status": status,
		"limit":  limit,
		"offset": offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseSuppliersResult(result)
}

// UpdateAccountStatus moves a supplier's account status and records the
// review trail
func (r *SupplierRepository) UpdateAccountStatus(ctx context.Context, id string, status model.SupplierAccountStatus, note *string, adminID *string) error {
	query := `
		UPDATE supplier SET
			account_status = $status,
			review_note = $note,
			reviewed_by_id = $admin_id,
			account_reviewed_on = time::now(),
			updated_on = time::now()
		WHERE id = type::record($id)
	`
	vars := map[string]interface{}{
		"id":       id,
		"status":   status,
		"note":     note,
		"admin_id": adminID,
	}

	return r.db.Execute(ctx, query, vars)
}

// UpdateIdentityStatus moves a supplier's identity verification status
func (r *SupplierRepository) UpdateIdentityStatus(ctx context.Context, id string, status model.IdentityVerificationStatus, adminID *string) error {
	query := `
		UPDATE supplier SET
			identity_status = $status,
			identity_reviewed_by_id = $admin_id,
			identity_reviewed_on = time::now(),
			updated_on = time::now()
		WHERE id = type::record($id)
	`
	vars := map[string]interface{}{
		"id":       id,
		"status":   status,
		"admin_id": adminID,
	}

	return r.db.Execute(ctx, query, vars)
}

// UpdateIdentityDocuments replaces the submitted document references,
// used when a rejected identity resubmits
func (r *SupplierRepository) UpdateIdentityDocuments(ctx context.Context, id string, documentIDs []string) error {
	query := `
		UPDATE supplier SET
			identity_document_ids = $document_ids,
			updated_on = time::now()
		WHERE id = type::record($id)
	`
	vars := map[string]interface{}{
		"id":           id,
		"document_ids": documentIDs,
	}

	return r.db.Execute(ctx, query, vars)
}

// SetServiceCount updates the supplier's published service count
func (r *SupplierRepository) SetServiceCount(ctx context.Context, id string, count int) error {
	query := `
		UPDATE supplier SET
			service_count = $count,
			updated_on = time::now()
		WHERE id = type::record($id)
	`
	vars := map[string]interface{}{
		"id":    id,
		"count": count,
	}

	return r.db.Execute(ctx, query, vars)
}

// Helper functions

func parseSupplierResult(result interface{}) (*model.Supplier, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	if id, ok := data["id"]; ok {
		data["id"] = convertSurrealID(id)
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var supplier model.Supplier
	if err := json.Unmarshal(jsonBytes, &supplier); err != nil {
		return nil, err
	}

	if t := getTime(data, "created_on"); t != nil {
		supplier.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		supplier.UpdatedOn = *t
	}
	supplier.AccountReviewedOn = getTime(data, "account_reviewed_on")
	supplier.IdentityReviewedOn = getTime(data, "identity_reviewed_on")

	return &supplier, nil
}

func parseSuppliersResult(result []interface{}) ([]*model.Supplier, error) {
	suppliers := make([]*model.Supplier, 0)

	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					supplier, err := parseSupplierResult(item)
					if err != nil {
						continue
					}
					suppliers = append(suppliers, supplier)
				}
				continue
			}
		}

		supplier, err := parseSupplierResult(res)
		if err != nil {
			continue
		}
		suppliers = append(suppliers, supplier)
	}

	return suppliers, nil
}
