package domain

type Task struct {
	ID                    int64   `json:"id"`
	Name                  string  `json:"name"`
	Description           *string `json:"description,omitempty"`
	CertificationRequired *string `json:"certification_required,omitempty"`
}

type TaskPayload struct {
	Name                  string  `json:"name" validate:"required"`
	Description           *string `json:"description,omitempty"`
	CertificationRequired *string `json:"certification_required,omitempty"`
}
