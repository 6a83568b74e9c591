package entities

// ComplaintType is a dictionary entry. Aliases are the legacy spellings the ledger
// still carries for the same logical type.
type ComplaintType struct {
	ID      uint64   `json:"id" db:"id"`
	Code    string   `json:"code" db:"code"`
	Name    string   `json:"name" db:"name"`
	Aliases []string `json:"aliases" db:"aliases"`
}
