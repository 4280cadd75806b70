package db

import (
	"context"
	stderrors "errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"taskboard/internal/domain/errors"
	"taskboard/internal/domain/models"
)

const uniqueViolation = "23505"

type Storage struct {
	conn               *pgx.Conn
	prepCreateUser     string
	prepGetUserByID    string
	prepGetUserByEmail string
	prepGetActiveUsers string
	prepUpdateUser     string
	prepSoftDeleteUser string
	prepCreateTask     string
	prepGetTaskByID    string
	prepGetTasks       string
	prepGetTasksByUser string
	prepUpdateTask     string
	prepDeleteTask     string
}

func NewStorage(connStr string) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		log.Println("[ERROR] Не удалось подключиться к базе данных:", err)
		return nil, err
	}

	s := &Storage{
		conn:               conn,
		prepCreateUser:     `INSERT INTO users (id, email, password, name, role, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		prepGetUserByID:    `SELECT id, email, password, name, role, is_active, created_at, updated_at FROM users WHERE id = $1`,
		prepGetUserByEmail: `SELECT id, email, password, name, role, is_active, created_at, updated_at FROM users WHERE email = $1`,
		prepGetActiveUsers: `SELECT id, email, password, name, role, is_active, created_at, updated_at FROM users WHERE is_active = true ORDER BY created_at`,
		prepUpdateUser:     `UPDATE users SET email = $1, password = $2, name = $3, role = $4, is_active = $5, updated_at = $6 WHERE id = $7`,
		prepSoftDeleteUser: `UPDATE users SET is_active = false, updated_at = $1 WHERE id = $2`,
		prepCreateTask:     `INSERT INTO tasks (id, title, description, status, created_by, assigned_to, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		prepGetTaskByID:    `SELECT id, title, description, status, created_by, assigned_to, created_at, updated_at FROM tasks WHERE id = $1`,
		prepGetTasks:       `SELECT id, title, description, status, created_by, assigned_to, created_at, updated_at FROM tasks ORDER BY created_at DESC`,
		prepGetTasksByUser: `SELECT id, title, description, status, created_by, assigned_to, created_at, updated_at FROM tasks WHERE created_by = $1 ORDER BY created_at DESC`,
		prepUpdateTask:     `UPDATE tasks SET title = $1, description = $2, status = $3, assigned_to = $4, updated_at = $5 WHERE id = $6`,
		prepDeleteTask:     `DELETE FROM tasks WHERE id = $1`,
	}
	log.Println("[SUCCESS] Соединение с базой данных установлено успешно")
	return s, nil
}

func (s *Storage) Close(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	user.ID = uuid.New().String()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	stmt, err := s.conn.Prepare(ctx, "create_user", s.prepCreateUser)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на создание пользователя:", err)
		return err
	}
	_, err = s.conn.Exec(ctx, stmt.Name, user.ID, user.Email, user.Password, user.Name, user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			log.Println("[ERROR] Email уже занят:", user.Email)
			return errors.ErrEmailTaken
		}
		log.Println("[ERROR] Не удалось создать пользователя:", err)
		return err
	}
	log.Println("[SUCCESS] Пользователь успешно создан:", user.ID)
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "get_user_by_id", s.prepGetUserByID)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на получение пользователя по ID:", err)
		return nil, err
	}
	row := s.conn.QueryRow(ctx, stmt.Name, id)
	user := &models.User{}
	if err := row.Scan(&user.ID, &user.Email, &user.Password, &user.Name, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.ErrUserNotFound
		}
		log.Println("[ERROR] Ошибка при получении пользователя:", err)
		return nil, err
	}
	return user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "get_user_by_email", s.prepGetUserByEmail)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на получение пользователя по email:", err)
		return nil, err
	}
	row := s.conn.QueryRow(ctx, stmt.Name, email)
	user := &models.User{}
	if err := row.Scan(&user.ID, &user.Email, &user.Password, &user.Name, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.ErrUserNotFound
		}
		log.Println("[ERROR] Ошибка при получении пользователя:", err)
		return nil, err
	}
	return user, nil
}

func (s *Storage) GetActiveUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "get_active_users", s.prepGetActiveUsers)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на получение пользователей:", err)
		return nil, err
	}
	rows, err := s.conn.Query(ctx, stmt.Name)
	if err != nil {
		log.Println("[ERROR] Не удалось получить пользователей:", err)
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user := models.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.Password, &user.Name, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			log.Println("[ERROR] Ошибка при чтении пользователей:", err)
			return nil, err
		}
		users = append(users, user)
	}
	log.Println("[SUCCESS] Получено пользователей:", len(users))
	return users, nil
}

func (s *Storage) UpdateUser(ctx context.Context, id string, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	user.UpdatedAt = time.Now().UTC()
	stmt, err := s.conn.Prepare(ctx, "update_user", s.prepUpdateUser)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на обновление пользователя:", err)
		return err
	}
	ct, err := s.conn.Exec(ctx, stmt.Name, user.Email, user.Password, user.Name, user.Role, user.IsActive, user.UpdatedAt, id)
	if err != nil {
		if isUniqueViolation(err) {
			log.Println("[ERROR] Email уже занят:", user.Email)
			return errors.ErrEmailTaken
		}
		log.Println("[ERROR] Не удалось обновить пользователя:", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		log.Println("[ERROR] Пользователь для обновления не найден:", id)
		return errors.ErrUserNotFound
	}
	log.Println("[SUCCESS] Пользователь успешно обновлен:", id)
	return nil
}

func (s *Storage) SoftDeleteUser(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "soft_delete_user", s.prepSoftDeleteUser)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на деактивацию пользователя:", err)
		return err
	}
	ct, err := s.conn.Exec(ctx, stmt.Name, time.Now().UTC(), id)
	if err != nil {
		log.Println("[ERROR] Не удалось деактивировать пользователя:", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		log.Println("[ERROR] Пользователь для деактивации не найден:", id)
		return errors.ErrUserNotFound
	}
	log.Println("[SUCCESS] Пользователь деактивирован:", id)
	return nil
}

// Каскадное удаление: задачи пользователя и его строка уходят одной
// транзакцией.
func (s *Storage) HardDeleteUser(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		log.Println("[ERROR] Не удалось начать транзакцию:", err)
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE created_by = $1`, id); err != nil {
		_ = tx.Rollback(ctx)
		log.Println("[ERROR] Не удалось удалить задачи пользователя:", err)
		return err
	}
	ct, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		_ = tx.Rollback(ctx)
		log.Println("[ERROR] Не удалось удалить пользователя:", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		_ = tx.Rollback(ctx)
		log.Println("[ERROR] Пользователь для удаления не найден:", id)
		return errors.ErrUserNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		log.Println("[ERROR] Не удалось завершить транзакцию:", err)
		return err
	}
	log.Println("[SUCCESS] Пользователь окончательно удален:", id)
	return nil
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	task.ID = uuid.New().String()
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	stmt, err := s.conn.Prepare(ctx, "create_task", s.prepCreateTask)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на создание задачи:", err)
		return err
	}
	_, err = s.conn.Exec(ctx, stmt.Name, task.ID, task.Title, task.Description, task.Status, task.CreatedBy, task.AssignedTo, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		log.Println("[ERROR] Не удалось создать задачу:", err)
		return err
	}
	log.Println("[SUCCESS] Задача успешно создана:", task.ID)
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "get_task_by_id", s.prepGetTaskByID)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на получение задачи по ID:", err)
		return nil, err
	}
	row := s.conn.QueryRow(ctx, stmt.Name, id)
	task := &models.Task{}
	if err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.CreatedBy, &task.AssignedTo, &task.CreatedAt, &task.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.ErrTaskNotFound
		}
		log.Println("[ERROR] Ошибка при получении задачи:", err)
		return nil, err
	}
	return task, nil
}

func (s *Storage) GetTasks(ctx context.Context) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "get_tasks", s.prepGetTasks)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на получение всех задач:", err)
		return nil, err
	}
	rows, err := s.conn.Query(ctx, stmt.Name)
	if err != nil {
		log.Println("[ERROR] Не удалось получить задачи:", err)
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (s *Storage) GetTasksByCreator(ctx context.Context, creatorID string) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "get_tasks_by_creator", s.prepGetTasksByUser)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на получение задач пользователя:", err)
		return nil, err
	}
	rows, err := s.conn.Query(ctx, stmt.Name, creatorID)
	if err != nil {
		log.Println("[ERROR] Не удалось получить задачи:", err)
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func scanTasks(rows pgx.Rows) ([]models.Task, error) {
	tasks := []models.Task{}
	for rows.Next() {
		task := models.Task{}
		if err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.CreatedBy, &task.AssignedTo, &task.CreatedAt, &task.UpdatedAt); err != nil {
			log.Println("[ERROR] Ошибка при чтении задач:", err)
			return nil, err
		}
		tasks = append(tasks, task)
	}
	log.Println("[SUCCESS] Получено задач:", len(tasks))
	return tasks, nil
}

func (s *Storage) UpdateTask(ctx context.Context, id string, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	task.UpdatedAt = time.Now().UTC()
	stmt, err := s.conn.Prepare(ctx, "update_task", s.prepUpdateTask)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на обновление задачи:", err)
		return err
	}
	ct, err := s.conn.Exec(ctx, stmt.Name, task.Title, task.Description, task.Status, task.AssignedTo, task.UpdatedAt, id)
	if err != nil {
		log.Println("[ERROR] Не удалось обновить задачу:", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		log.Println("[ERROR] Задача для обновления не найдена:", id)
		return errors.ErrTaskNotFound
	}
	log.Println("[SUCCESS] Задача успешно обновлена:", id)
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "delete_task", s.prepDeleteTask)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на удаление задачи:", err)
		return err
	}
	ct, err := s.conn.Exec(ctx, stmt.Name, id)
	if err != nil {
		log.Println("[ERROR] Не удалось удалить задачу:", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		log.Println("[ERROR] Задача для удаления не найдена:", id)
		return errors.ErrTaskNotFound
	}
	log.Println("[SUCCESS] Задача удалена:", id)
	return nil
}
