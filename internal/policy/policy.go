package policy

import (
	"taskboard/internal/domain/models"
)

type TaskAction int

const (
	TaskRead TaskAction = iota
	TaskUpdate
	TaskDelete
)

// Вызывается после выборки записи: несуществующий ID даёт NotFound
// до любой проверки прав.
func AllowsTask(action TaskAction, role, callerID string, task *models.Task) bool {
	if task == nil {
		return false
	}

	switch action {
	case TaskRead, TaskUpdate:
		if role == models.RoleAdmin || role == models.RoleEditor {
			return true
		}
		return task.CreatedBy == callerID
	case TaskDelete:
		if role == models.RoleAdmin {
			return true
		}
		return task.CreatedBy == callerID
	}

	return false
}

func SeesAllTasks(role string) bool {
	return role == models.RoleAdmin || role == models.RoleEditor
}

func ManagesUsers(role string) bool {
	return role == models.RoleAdmin
}
