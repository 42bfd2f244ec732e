package dto

import "github.com/google/uuid"

// UpdateTaskRequest uses pointers so "field absent" and "set to empty"
// stay distinguishable; the reply may legitimately be cleared.
type UpdateTaskRequest struct {
	Status        *string `json:"status"`
	EmployeeReply *string `json:"employeeReply"`
}

type BulkAssignResponse struct {
	Message string `json:"message"`
	IsBulk  bool   `json:"isBulk"`
	Count   int    `json:"count"`
}

type DeletedResponse struct {
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}
