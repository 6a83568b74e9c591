package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exportQuery struct {
	Format string `validate:"export_format"`
	Ward   string `validate:"omitempty,numeric"`
}

func TestValidate_ExportFormat(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&exportQuery{}))
	assert.NoError(t, v.Validate(&exportQuery{Format: "json"}))
	assert.NoError(t, v.Validate(&exportQuery{Format: "XLSX", Ward: "12"}))
	assert.Error(t, v.Validate(&exportQuery{Format: "pdf"}))
	assert.Error(t, v.Validate(&exportQuery{Ward: "north"}))
}

func TestValidate_ErrorsNameTheQueryParameter(t *testing.T) {
	type reportQuery struct {
		Format string `query:"format" validate:"export_format"`
	}

	err := New().Validate(&reportQuery{Format: "pdf"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "format", verrs[0].Field())
}
