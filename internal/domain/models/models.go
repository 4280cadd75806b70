package models

import "time"

const (
	RoleAdmin  = "ADMIN"
	RoleEditor = "EDITOR"
	RoleUser   = "USER"
)

const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

type User struct {
	ID        string    `json:"id" validate:"omitempty,uuid"`
	Email     string    `json:"email" validate:"required,email"`
	Password  string    `json:"-" validate:"required,min=6,max=100"`
	Name      string    `json:"name" validate:"required,min=1,max=100"`
	Role      string    `json:"role" validate:"required,oneof=ADMIN EDITOR USER"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Task struct {
	ID          string    `json:"id" validate:"omitempty,uuid"`
	Title       string    `json:"title" validate:"required,min=1,max=200"`
	Description string    `json:"description" validate:"omitempty,max=2000"`
	Status      string    `json:"status" validate:"required,oneof=TODO IN_PROGRESS DONE"`
	CreatedBy   string    `json:"createdBy" validate:"required,uuid"`
	AssignedTo  *string   `json:"assignedTo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Role     string `json:"role" validate:"required,oneof=ADMIN EDITOR USER"`
}

type UpdateUserRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6,max=100"`
	Name     string `json:"name" validate:"omitempty,min=1,max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN EDITOR USER"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Status      string  `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	AssignedTo  *string `json:"assignedTo" validate:"omitempty"`
}

type UpdateTaskRequest struct {
	Title       string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Status      string  `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	AssignedTo  *string `json:"assignedTo" validate:"omitempty"`
}
