package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"sakkanal_backend/platform/apperr"
)

func TestDeleteScenarioErrorMapsForeignKeyToConflict(t *testing.T) {
	fk := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23503", ConstraintName: "leads_scenario_id_fkey"})

	err := deleteScenarioError(fk)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), ScenarioInUseMessage)
}

func TestDeleteScenarioErrorWrapsOtherFailures(t *testing.T) {
	cause := errors.New("connection reset")

	err := deleteScenarioError(cause)
	assert.ErrorIs(t, err, cause)
	assert.False(t, apperr.Is(err, apperr.KindConflict))

	err = deleteScenarioError(&pgconn.PgError{Code: "23505"})
	assert.False(t, apperr.Is(err, apperr.KindConflict))
}
