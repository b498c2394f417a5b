// Package models содержит доменные структуры сервиса подбора вакансий:
// пользователей, тарифные планы, отклики на вакансии и связанные с ними
// вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет соискателя, зарегистрированного в системе.
type User struct {
	UID                     string           // Уникальный идентификатор пользователя
	Email                   string           // Электронная почта
	Username                string           // Имя пользователя (уникальное)
	Role                    string           // Роль пользователя, admin или user
	Citizenship             string           // Код страны, определяет валюту и кошелёк (например "IN")
	WalletAmount            int              // Баланс кошелька, используется только для PAYG в Индии
	ActivePlan              string           // ID тарифного плана, выбранного пользователем
	MaxHotJobs              *int             // Переопределение лимита hot jobs, задаётся администратором
	PlanExpiresAt           *time.Time       // Переопределение даты истечения плана на уровне пользователя
	HotJobApplicationsCount int              // Счётчик откликов на hot jobs, не авторитативен
	ProfileCompleted        bool             // Заполнен ли профиль после регистрации
	Plans                   []PlanMembership // Упорядоченный список членств в планах
}

// PlanMembership описывает членство пользователя в тарифном плане.
// Порядок элементов в списке соответствует порядку добавления,
// последний элемент считается самым свежим.
type PlanMembership struct {
	PlanID     string     // ID плана из каталога
	Category   string     // Категория плана, membership или service
	ExpiryDate *time.Time // Дата истечения членства (nil — бессрочно)
}
