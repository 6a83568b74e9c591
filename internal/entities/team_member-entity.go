package entities

type TeamMember struct {
	ID       uint64 `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Role     string `json:"role" db:"role"`
	WardID   uint64 `json:"ward_id" db:"ward_id"`
	IsActive bool   `json:"is_active" db:"is_active"`
}
