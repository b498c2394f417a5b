package models

import "time"

// Статусы заявок на ускоренное рассмотрение.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
)

// HotJobRequest представляет заявку на ускоренное рассмотрение вакансии,
// которую сотрудник обрабатывает от имени пользователя. Отличается от Application:
// наличие заявки в статусе pending блокирует повторный отклик на ту же вакансию.
type HotJobRequest struct {
	ID        int       // Идентификатор заявки
	UserUID   string    // Идентификатор пользователя
	JobID     string    // Идентификатор вакансии
	Status    string    // pending или approved
	CreatedAt time.Time // Момент создания заявки
}
