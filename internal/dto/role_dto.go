package dto

type CreateRoleRequest struct {
	Name        string   `json:"name"        validate:"required,min=2,max=40"`
	Description *string  `json:"description" validate:"omitempty,max=255"`
	Permissions []string `json:"permissions" validate:"required,min=1,dive,required"`
}

type UpdateRoleRequest struct {
	Description *string  `json:"description" validate:"omitempty,max=255"`
	Permissions []string `json:"permissions" validate:"omitempty,min=1,dive,required"`
}

type RoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions"`
}
