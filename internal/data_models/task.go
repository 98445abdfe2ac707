package dto

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

// UpdateTaskRequest is a partial update: nil fields are left untouched.
// id, owner_id and created_at are not patchable and are rejected at the
// HTTP boundary before this struct is populated.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
	Completed   *bool   `json:"completed"`
}
