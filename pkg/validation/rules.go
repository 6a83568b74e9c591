package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"complaint-analytics/pkg/constants"
)

func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("export_format", isExportFormat); err != nil {
		return err
	}
	return nil
}

// isExportFormat accepts the supported export formats in any case; empty means JSON.
func isExportFormat(fl validator.FieldLevel) bool {
	switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
	case "", constants.ExportFormatJSON, constants.ExportFormatXLSX:
		return true
	default:
		return false
	}
}
