package seeders

import "complaint-analytics/pkg/constants"

var wardsData = []struct {
	Code string
	Name string
}{
	{Code: "W01", Name: "Central"},
	{Code: "W02", Name: "North Hills"},
	{Code: "W03", Name: "Riverside"},
	{Code: "W04", Name: "Old Town"},
	{Code: "W05", Name: "Industrial Zone"},
}

// Aliases are spellings that older ledger rows still carry.
var complaintTypesData = []struct {
	Code    string
	Name    string
	Aliases []string
}{
	{Code: "POTHOLE", Name: "Pothole", Aliases: []string{"road damage", "Road Repair"}},
	{Code: "WATER_SUPPLY", Name: "Water Supply", Aliases: []string{"water", "no water"}},
	{Code: "GARBAGE", Name: "Garbage Collection", Aliases: []string{"waste", "trash"}},
	{Code: "STREETLIGHT", Name: "Street Light", Aliases: []string{"street lamp", "lighting"}},
	{Code: "DRAINAGE", Name: "Drainage", Aliases: []string{"sewage", "blocked drain"}},
	{Code: "NOISE", Name: "Noise"},
}

// Hours per type; keys use the same spellings operators type into system_config.
var slaRulesData = map[string]string{
	"default":      "48",
	"POTHOLE":      "72",
	"water supply": "24",
	"GARBAGE":      "24",
	"STREETLIGHT":  "48",
	"drainage":     "36",
	"NOISE":        "12",
}

var brandingData = map[string]string{
	constants.ConfigKeyAppName:  "Municipal Complaints",
	constants.ConfigKeyLogoURL:  "",
	constants.ConfigKeyIDPrefix: "CMP-",
}

var rosterData = []struct {
	Name     string
	Role     constants.Role
	WardCode string
}{
	{Name: "Amina Rahimova", Role: constants.RoleWardOfficer, WardCode: "W01"},
	{Name: "Daniel Okafor", Role: constants.RoleMaintenance, WardCode: "W01"},
	{Name: "Lena Fischer", Role: constants.RoleMaintenance, WardCode: "W01"},
	{Name: "Rustam Karimov", Role: constants.RoleWardOfficer, WardCode: "W02"},
	{Name: "Priya Nair", Role: constants.RoleMaintenance, WardCode: "W02"},
	{Name: "Tomas Novak", Role: constants.RoleWardOfficer, WardCode: "W03"},
	{Name: "Sara Haddad", Role: constants.RoleMaintenance, WardCode: "W03"},
	{Name: "Mei Tanaka", Role: constants.RoleMaintenance, WardCode: "W04"},
	{Name: "Omar Yusupov", Role: constants.RoleWardOfficer, WardCode: "W05"},
	{Name: "Grace Mensah", Role: constants.RoleMaintenance, WardCode: "W05"},
}
