package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/domain/models"
	"taskboard/internal/server"
	db "taskboard/repository/db"
)

type seedUser struct {
	email    string
	password string
	name     string
	role     string
}

var seedUsers = []seedUser{
	{"admin@example.com", "admin123", "Admin User", models.RoleAdmin},
	{"editor@example.com", "editor123", "Editor User", models.RoleEditor},
	{"user@example.com", "user123", "Basic User", models.RoleUser},
}

func main() {
	log.Println("Заполнение базы демонстрационными данными...")

	cfg := server.ReadConfig()

	if err := db.Migration(cfg.DBStr, cfg.MigratePath); err != nil {
		log.Fatalf("[ERROR] Ошибка применения миграций: %v", err)
	}

	storage, err := db.NewStorage(cfg.DBStr)
	if err != nil {
		log.Fatalf("[ERROR] Не удалось подключиться к БД: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	created := map[string]string{}
	for _, su := range seedUsers {
		if existing, err := storage.GetUserByEmail(ctx, su.email); err == nil {
			log.Println("[INFO] Пользователь уже существует, пропускаем:", su.email)
			created[su.role] = existing.ID
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[ERROR] Не удалось захэшировать пароль: %v", err)
		}

		user := models.User{
			Email:    su.email,
			Password: string(hash),
			Name:     su.name,
			Role:     su.role,
			IsActive: true,
		}
		if err := storage.CreateUser(ctx, &user); err != nil {
			log.Fatalf("[ERROR] Не удалось создать пользователя %s: %v", su.email, err)
		}
		created[su.role] = user.ID
		log.Println("[SUCCESS] Создан пользователь:", su.email)
	}

	tasks := []models.Task{
		{Title: "Настроить базу данных PostgreSQL", Description: "Подготовить схему и миграции проекта", Status: models.StatusDone, CreatedBy: created[models.RoleAdmin]},
		{Title: "Реализовать аутентификацию", Description: "JWT-токены и bcrypt-хэширование паролей", Status: models.StatusDone, CreatedBy: created[models.RoleAdmin]},
		{Title: "Собрать CRUD задач", Description: "Эндпоинты управления задачами", Status: models.StatusInProgress, CreatedBy: created[models.RoleEditor], AssignedTo: ptr(created[models.RoleEditor])},
		{Title: "Добавить ролевую модель", Description: "Роли ADMIN, EDITOR и USER с проверкой прав", Status: models.StatusInProgress, CreatedBy: created[models.RoleEditor]},
		{Title: "Сверстать интерфейс", Description: "Клиентское приложение для API", Status: models.StatusTodo, CreatedBy: created[models.RoleUser], AssignedTo: ptr(created[models.RoleUser])},
		{Title: "Написать документацию", Description: "Описание эндпоинтов и инструкция по запуску", Status: models.StatusTodo, CreatedBy: created[models.RoleUser]},
	}

	for i := range tasks {
		if err := storage.CreateTask(ctx, &tasks[i]); err != nil {
			log.Fatalf("[ERROR] Не удалось создать задачу %q: %v", tasks[i].Title, err)
		}
	}
	log.Println("[SUCCESS] Создано задач:", len(tasks))

	if err := storage.Close(ctx); err != nil {
		log.Printf("[WARN] Ошибка закрытия соединения с БД: %v", err)
	}

	log.Println("Заполнение завершено")
}

func ptr(s string) *string { return &s }
