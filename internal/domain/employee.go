package domain

type Employee struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Position  *string `json:"position,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type EmployeePayload struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Position  *string `json:"position,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}
