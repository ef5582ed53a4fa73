package dto

import "github.com/markusj17/Dynamic-Curriculum-AI/internal/models"

type CreateEmployeeRequest struct {
	Name              string  `json:"name"`
	Email             *string `json:"email,omitempty"`
	CurrentRole       string  `json:"current_role"`
	CurrentSkills     string  `json:"current_skills"`
	DesiredSkillsGoal string  `json:"desired_skills_goal"`
}

type UpdateEmployeeRequest struct {
	Name              *string `json:"name,omitempty"`
	Email             *string `json:"email,omitempty"`
	CurrentRole       *string `json:"current_role,omitempty"`
	CurrentSkills     *string `json:"current_skills,omitempty"`
	DesiredSkillsGoal *string `json:"desired_skills_goal,omitempty"`
}

// EmployeeCredentials is returned exactly once per generation; the
// plaintext password is never stored or shown again.
type EmployeeCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateEmployeeResponse struct {
	Employee    *models.Employee    `json:"employee"`
	Credentials EmployeeCredentials `json:"credentials"`
}

type UpdateCompanyRequest struct {
	Name string `json:"name"`
}
