package entitlement

import (
	"context"
	"database/sql"

	"github.com/course-companion/backend/internal/apperr"
	"github.com/course-companion/backend/internal/database"
	"github.com/course-companion/backend/internal/models"
)

type Store struct {
	db    *sql.DB
	retry database.RetryPolicy
}

func NewStore(db *sql.DB, retry database.RetryPolicy) *Store {
	return &Store{db: db, retry: retry}
}

// LoadRules reads every entitlement rule. Called once at startup to build the
// process-lifetime Ruleset.
func (s *Store) LoadRules(ctx context.Context) ([]models.EntitlementRule, error) {
	var rules []models.EntitlementRule
	err := s.retry.Do(ctx, "load entitlement rules", func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, resource_type, resource_id, min_tier FROM entitlement_rules`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		rules = rules[:0]
		for rows.Next() {
			var r models.EntitlementRule
			if err := rows.Scan(&r.ID, &r.ResourceType, &r.ResourceID, &r.MinTier); err != nil {
				return err
			}
			rules = append(rules, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperr.Store("load entitlement rules", err)
	}
	return rules, nil
}
