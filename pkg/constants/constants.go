// pkg/constants/constants.go
package constants

//============== SYSTEM CONFIG KEYS ==============

// Keys of the system_config key/value store read by the analytics service.
const (
	// SLA hours per complaint type. Format: sla_hours.<type code|type id|type name> -> "24"
	ConfigKeySLAPrefix = "sla_hours."
	// Overrides the built-in default SLA for types without an explicit rule.
	ConfigKeySLADefault = "sla_hours.default"

	ConfigKeyAppName  = "app_name"
	ConfigKeyLogoURL  = "logo_url"
	ConfigKeyIDPrefix = "complaint_id_prefix"
)

// DefaultSLAHours is used when neither the environment nor system_config override it.
const DefaultSLAHours = 48.0

//============== CACHE KEYS ==============

// Prefixes for keys in Redis.
const (
	// Ward dictionary as JSON. Format: analytics:dict:wards -> []entities.Ward
	CacheKeyWards = "analytics:dict:wards"

	// Complaint type dictionary as JSON. Format: analytics:dict:types -> []entities.ComplaintType
	CacheKeyComplaintTypes = "analytics:dict:types"

	// Branding strings as JSON. Format: analytics:branding -> types.Branding
	CacheKeyBranding = "analytics:branding"
)

//============== EXPORT ==============

const (
	ExportFormatJSON = "json"
	ExportFormatXLSX = "xlsx"
)
