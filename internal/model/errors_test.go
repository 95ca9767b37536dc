package model

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"validation", NewValidationError("first_name", "is required"), ErrCodeValidation},
		{"duplicate", NewDuplicateError("Maria", "Garcia"), ErrCodeDuplicate},
		{"not found", NewNotFoundError("resident", 7), ErrCodeNotFound},
		{"store", WrapStoreError("insert resident", sql.ErrConnDone), ErrCodeStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.Equal(t, tt.code, CodeOf(wrapped))
			assert.Equal(t, tt.code == ErrCodeValidation, IsValidation(wrapped))
			assert.Equal(t, tt.code == ErrCodeDuplicate, IsDuplicate(wrapped))
			assert.Equal(t, tt.code == ErrCodeNotFound, IsNotFound(wrapped))
			assert.Equal(t, tt.code == ErrCodeStore, IsStore(wrapped))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "VALIDATION: first_name: is required",
		NewValidationError("first_name", "is required").Error())
	assert.Equal(t, `DUPLICATE: resident "Maria Garcia" already exists`,
		NewDuplicateError("Maria", "Garcia").Error())
	assert.Equal(t, "NOT_FOUND: resident 7 not found",
		NewNotFoundError("resident", 7).Error())
}

func TestWrapStoreError_Unwraps(t *testing.T) {
	err := WrapStoreError("query residents", sql.ErrConnDone)
	require.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), "query residents")
}

func TestCodeOf_ForeignError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(sql.ErrNoRows))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}
