// Package audit records every mutation of monitored entities into the
// audit_entries table through GORM callbacks, so services do not have to
// remember to write trail entries themselves. The entries are inserted on
// the same connection as the triggering statement, which keeps them inside
// the caller's transaction when one is open. A write that cannot be
// recorded fails the enclosing transaction.
package audit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	domaudit "github.com/orderdesk/backend/internal/domain/audit"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/orderdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const beforeSnapshotKey = "audit:before_snapshot"

// tableEntityTypes maps audited table names to the entity type recorded
// in the trail. Tables not listed here are ignored by the recorder,
// including audit_entries itself.
var tableEntityTypes = map[string]string{
	"products":        "product",
	"orders":          "order",
	"order_lines":     "order_line",
	"return_requests": "return_request",
	"invoices":        "invoice",
}

// rowSnapshot pairs a row's primary key with its serialized state, for
// statements that touch more than one row.
type rowSnapshot struct {
	id   uuid.UUID
	data []byte
}

// errUnauditable marks a write that would escape the trail. The mutation
// must fail rather than slip through unrecorded.
func errUnauditable(table, reason string) error {
	return fmt.Errorf("audit: refusing unaudited write to %s: %s", table, reason)
}

// Recorder provides GORM callback hooks for automatic audit logging
type Recorder struct{}

// NewRecorder creates a new audit recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RegisterCallbacks registers audit callbacks with GORM
func (rec *Recorder) RegisterCallbacks(db *gorm.DB) {
	_ = db.Callback().Create().After("gorm:create").Register("audit:after_create", rec.afterCreate)

	_ = db.Callback().Update().Before("gorm:update").Register("audit:before_update", rec.beforeUpdate)
	_ = db.Callback().Update().After("gorm:update").Register("audit:after_update", rec.afterUpdate)

	_ = db.Callback().Delete().Before("gorm:delete").Register("audit:before_delete", rec.beforeDelete)
	_ = db.Callback().Delete().After("gorm:delete").Register("audit:after_delete", rec.afterDelete)
}

// afterCreate records a CREATE entry with the inserted row as the after
// snapshot
func (rec *Recorder) afterCreate(db *gorm.DB) {
	if db.Error != nil {
		return
	}
	entityType, ok := tableEntityTypes[db.Statement.Table]
	if !ok {
		return
	}

	id, ok := rec.entityID(db)
	if !ok {
		_ = db.AddError(errUnauditable(db.Statement.Table, "cannot resolve entity id"))
		return
	}

	after, err := json.Marshal(db.Statement.Dest)
	if err != nil {
		_ = db.AddError(errUnauditable(db.Statement.Table, "snapshot failed: "+err.Error()))
		return
	}

	rec.insertEntry(db, domaudit.ActionCreate, entityType, id, nil, after)
}

// beforeUpdate fetches the current row and stashes it on the statement so
// afterUpdate can record it as the before snapshot
func (rec *Recorder) beforeUpdate(db *gorm.DB) {
	if _, ok := tableEntityTypes[db.Statement.Table]; !ok {
		return
	}

	id, ok := rec.entityID(db)
	if !ok {
		// afterUpdate fails the statement if rows end up affected
		return
	}

	if snapshot := rec.fetchSnapshot(db, id); snapshot != nil {
		db.InstanceSet(beforeSnapshotKey, snapshot)
	}
}

// afterUpdate records an UPDATE entry with before and after snapshots
func (rec *Recorder) afterUpdate(db *gorm.DB) {
	if db.Error != nil || db.RowsAffected == 0 {
		return
	}
	entityType, ok := tableEntityTypes[db.Statement.Table]
	if !ok {
		return
	}

	id, ok := rec.entityID(db)
	if !ok {
		_ = db.AddError(errUnauditable(db.Statement.Table, "cannot resolve entity id"))
		return
	}

	var before []byte
	if stashed, ok := db.InstanceGet(beforeSnapshotKey); ok {
		before, _ = stashed.([]byte)
	}

	after := rec.fetchSnapshot(db, id)
	if after == nil {
		_ = db.AddError(errUnauditable(db.Statement.Table, "cannot snapshot updated row"))
		return
	}

	rec.insertEntry(db, domaudit.ActionUpdate, entityType, id, before, after)
}

// beforeDelete snapshots every row the statement is about to remove.
// Deletes may target several rows at once (order line reconciliation
// filters on order_id), so the stash holds one snapshot per row.
func (rec *Recorder) beforeDelete(db *gorm.DB) {
	if _, ok := tableEntityTypes[db.Statement.Table]; !ok {
		return
	}

	rows, err := rec.fetchAffectedRows(db)
	if err != nil {
		_ = db.AddError(errUnauditable(db.Statement.Table, err.Error()))
		return
	}
	if len(rows) > 0 {
		db.InstanceSet(beforeSnapshotKey, rows)
	}
}

// afterDelete records one DELETE entry per removed row, with the row as
// the before snapshot
func (rec *Recorder) afterDelete(db *gorm.DB) {
	if db.Error != nil || db.RowsAffected == 0 {
		return
	}
	entityType, ok := tableEntityTypes[db.Statement.Table]
	if !ok {
		return
	}

	var rows []rowSnapshot
	if stashed, ok := db.InstanceGet(beforeSnapshotKey); ok {
		rows, _ = stashed.([]rowSnapshot)
	}
	if len(rows) == 0 {
		_ = db.AddError(errUnauditable(db.Statement.Table, "no pre-delete snapshot"))
		return
	}

	for _, row := range rows {
		rec.insertEntry(db, domaudit.ActionDelete, entityType, row.id, row.data, nil)
	}
}

// fetchSnapshot loads the row by ID on the same connection and returns it
// as JSON, or nil when the row does not exist
func (rec *Recorder) fetchSnapshot(db *gorm.DB, id uuid.UUID) []byte {
	dest := newModelForTable(db.Statement.Table)
	if dest == nil {
		return nil
	}

	session := db.Session(&gorm.Session{NewDB: true, SkipHooks: true})
	if err := session.Table(db.Statement.Table).Where("id = ?", id).First(dest).Error; err != nil {
		return nil
	}

	snapshot, err := json.Marshal(dest)
	if err != nil {
		return nil
	}
	return snapshot
}

// fetchAffectedRows loads every row matching the statement's WHERE clause
// on the same connection
func (rec *Recorder) fetchAffectedRows(db *gorm.DB) ([]rowSnapshot, error) {
	whereClause, ok := db.Statement.Clauses["WHERE"]
	if !ok {
		return nil, fmt.Errorf("statement has no conditions")
	}
	where, ok := whereClause.Expression.(clause.Where)
	if !ok {
		return nil, fmt.Errorf("statement has no conditions")
	}

	dest := newSliceForTable(db.Statement.Table)
	if dest == nil {
		return nil, fmt.Errorf("no model for table")
	}

	session := db.Session(&gorm.Session{NewDB: true, SkipHooks: true})
	query := session.Table(db.Statement.Table)
	for _, expr := range where.Exprs {
		query = query.Where(expr)
	}
	if err := query.Find(dest).Error; err != nil {
		return nil, err
	}

	return snapshotRows(dest)
}

// insertEntry writes the audit entry on the statement's connection
func (rec *Recorder) insertEntry(db *gorm.DB, action domaudit.Action, entityType string, id uuid.UUID, before, after []byte) {
	entry := models.AuditEntryModel{
		ID:             uuid.New(),
		Action:         action,
		EntityType:     entityType,
		EntityID:       id.String(),
		BeforeSnapshot: before,
		AfterSnapshot:  after,
		CreatedAt:      time.Now(),
	}

	if db.Statement.Context != nil {
		if actor, ok := shared.ActorFromContext(db.Statement.Context); ok {
			actorID := actor.UserID
			entry.ActorID = &actorID
			entry.ActorIP = actor.IP
		}
	}

	session := db.Session(&gorm.Session{NewDB: true, SkipHooks: true})
	if err := session.Create(&entry).Error; err != nil {
		_ = db.AddError(err)
	}
}

// entityID resolves the primary key of the row the statement targets,
// either from the destination model or from the WHERE conditions
func (rec *Recorder) entityID(db *gorm.DB) (uuid.UUID, bool) {
	if id, ok := idFromModel(db.Statement.Model); ok {
		return id, true
	}
	if id, ok := idFromModel(db.Statement.Dest); ok {
		return id, true
	}
	return rec.idFromWhereClause(db)
}

// idFromModel extracts the primary key from a known audited model struct
func idFromModel(value interface{}) (uuid.UUID, bool) {
	switch m := value.(type) {
	case *models.ProductModel:
		return m.ID, m.ID != uuid.Nil
	case *models.OrderModel:
		return m.ID, m.ID != uuid.Nil
	case *models.OrderLineModel:
		return m.ID, m.ID != uuid.Nil
	case *models.ReturnRequestModel:
		return m.ID, m.ID != uuid.Nil
	case *models.InvoiceModel:
		return m.ID, m.ID != uuid.Nil
	}
	return uuid.Nil, false
}

// idFromWhereClause walks the statement's WHERE conditions looking for an
// equality match on the id column
func (rec *Recorder) idFromWhereClause(db *gorm.DB) (uuid.UUID, bool) {
	whereClause, ok := db.Statement.Clauses["WHERE"]
	if !ok {
		return uuid.Nil, false
	}
	where, ok := whereClause.Expression.(clause.Where)
	if !ok {
		return uuid.Nil, false
	}

	for _, expr := range where.Exprs {
		if id, ok := idFromExpression(expr); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

// idFromExpression extracts an id value from a single clause expression
func idFromExpression(expr clause.Expression) (uuid.UUID, bool) {
	switch e := expr.(type) {
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok && col.Name == "id" {
			return parseIDValue(e.Value)
		}
	case clause.Expr:
		// Conditions built from raw SQL like "id = ? AND status = ?"
		// keep the id as the first bind variable
		if strings.HasPrefix(e.SQL, "id = ?") && len(e.Vars) > 0 {
			return parseIDValue(e.Vars[0])
		}
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if id, ok := idFromExpression(cond); ok {
				return id, true
			}
		}
	}
	return uuid.Nil, false
}

// parseIDValue converts a bind value to a UUID
func parseIDValue(value interface{}) (uuid.UUID, bool) {
	switch v := value.(type) {
	case uuid.UUID:
		return v, v != uuid.Nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, false
		}
		return id, true
	}
	return uuid.Nil, false
}

// newModelForTable returns an empty persistence model for an audited table
func newModelForTable(table string) interface{} {
	switch table {
	case "products":
		return &models.ProductModel{}
	case "orders":
		return &models.OrderModel{}
	case "order_lines":
		return &models.OrderLineModel{}
	case "return_requests":
		return &models.ReturnRequestModel{}
	case "invoices":
		return &models.InvoiceModel{}
	}
	return nil
}

// newSliceForTable returns an empty model slice for an audited table
func newSliceForTable(table string) interface{} {
	switch table {
	case "products":
		return &[]models.ProductModel{}
	case "orders":
		return &[]models.OrderModel{}
	case "order_lines":
		return &[]models.OrderLineModel{}
	case "return_requests":
		return &[]models.ReturnRequestModel{}
	case "invoices":
		return &[]models.InvoiceModel{}
	}
	return nil
}

// snapshotRows serializes each fetched row alongside its primary key
func snapshotRows(dest interface{}) ([]rowSnapshot, error) {
	switch rows := dest.(type) {
	case *[]models.ProductModel:
		out := make([]rowSnapshot, 0, len(*rows))
		for i := range *rows {
			snap, err := marshalRow((*rows)[i].ID, &(*rows)[i])
			if err != nil {
				return nil, err
			}
			out = append(out, snap)
		}
		return out, nil
	case *[]models.OrderModel:
		out := make([]rowSnapshot, 0, len(*rows))
		for i := range *rows {
			snap, err := marshalRow((*rows)[i].ID, &(*rows)[i])
			if err != nil {
				return nil, err
			}
			out = append(out, snap)
		}
		return out, nil
	case *[]models.OrderLineModel:
		out := make([]rowSnapshot, 0, len(*rows))
		for i := range *rows {
			snap, err := marshalRow((*rows)[i].ID, &(*rows)[i])
			if err != nil {
				return nil, err
			}
			out = append(out, snap)
		}
		return out, nil
	case *[]models.ReturnRequestModel:
		out := make([]rowSnapshot, 0, len(*rows))
		for i := range *rows {
			snap, err := marshalRow((*rows)[i].ID, &(*rows)[i])
			if err != nil {
				return nil, err
			}
			out = append(out, snap)
		}
		return out, nil
	case *[]models.InvoiceModel:
		out := make([]rowSnapshot, 0, len(*rows))
		for i := range *rows {
			snap, err := marshalRow((*rows)[i].ID, &(*rows)[i])
			if err != nil {
				return nil, err
			}
			out = append(out, snap)
		}
		return out, nil
	}
	return nil, fmt.Errorf("no model for table")
}

func marshalRow(id uuid.UUID, row interface{}) (rowSnapshot, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return rowSnapshot{}, fmt.Errorf("snapshot failed: %w", err)
	}
	return rowSnapshot{id: id, data: data}, nil
}

// EnableAuditTrail registers the audit recorder callbacks on a GORM DB
// instance
func EnableAuditTrail(db *gorm.DB) {
	NewRecorder().RegisterCallbacks(db)
}

// DisableAuditTrail removes the audit callbacks (mainly for tests)
func DisableAuditTrail(db *gorm.DB) {
	_ = db.Callback().Create().Remove("audit:after_create")
	_ = db.Callback().Update().Remove("audit:before_update")
	_ = db.Callback().Update().Remove("audit:after_update")
	_ = db.Callback().Delete().Remove("audit:before_delete")
	_ = db.Callback().Delete().Remove("audit:after_delete")
}
