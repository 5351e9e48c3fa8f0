package observability

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const startTimeKey = "observability:start"

// QueryMetrics is a gorm plugin that feeds the database collectors from the
// callback pipeline, so every repository operation is measured without the
// repositories knowing about it.
type QueryMetrics struct{}

// NewQueryMetrics constructs the plugin.
func NewQueryMetrics() QueryMetrics {
	RegisterMetrics()
	return QueryMetrics{}
}

// Name implements gorm.Plugin.
func (QueryMetrics) Name() string { return "prometheus-query-metrics" }

// Initialize implements gorm.Plugin by hooking before/after callbacks around
// each built-in operation kind.
func (p QueryMetrics) Initialize(db *gorm.DB) error {
	if err := db.Callback().Create().Before("gorm:create").Register("metrics:before_create", markStart); err != nil {
		return err
	}
	if err := db.Callback().Create().After("gorm:create").Register("metrics:after_create", observe("create")); err != nil {
		return err
	}
	if err := db.Callback().Query().Before("gorm:query").Register("metrics:before_query", markStart); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register("metrics:after_query", observe("query")); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("metrics:before_update", markStart); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("metrics:after_update", observe("update")); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("metrics:before_delete", markStart); err != nil {
		return err
	}
	if err := db.Callback().Delete().After("gorm:delete").Register("metrics:after_delete", observe("delete")); err != nil {
		return err
	}
	if err := db.Callback().Raw().Before("gorm:raw").Register("metrics:before_raw", markStart); err != nil {
		return err
	}
	if err := db.Callback().Raw().After("gorm:raw").Register("metrics:after_raw", observe("raw")); err != nil {
		return err
	}
	return nil
}

func markStart(tx *gorm.DB) {
	tx.InstanceSet(startTimeKey, time.Now())
}

func observe(operation string) func(tx *gorm.DB) {
	return func(tx *gorm.DB) {
		table := tx.Statement.Table
		if table == "" {
			table = "unknown"
		}

		DBOperations().WithLabelValues(operation, table).Inc()
		if v, ok := tx.InstanceGet(startTimeKey); ok {
			if start, ok := v.(time.Time); ok {
				DBOperationLatency().WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
			}
		}
		if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			DBOperationErrors().WithLabelValues(operation, table).Inc()
		}
	}
}
