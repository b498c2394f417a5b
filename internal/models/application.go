package models

import "time"

// Application представляет отклик пользователя на вакансию.
// На пару (UserUID, JobID) допускается не более одной записи.
type Application struct {
	ID        int       // Идентификатор записи
	UserUID   string    // Идентификатор пользователя
	JobID     string    // Идентификатор вакансии
	AppliedAt time.Time // Момент отклика (UTC)
	Status    string    // Статус отклика, например submitted
}

// ApplicationEvent публикуется в очередь после успешного отклика.
type ApplicationEvent struct {
	UserUID   string    `json:"user_uid"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	JobID     string    `json:"job_id"`
	AppliedAt time.Time `json:"applied_at"`
}

// WalletDebitedEvent публикуется в очередь после списания с кошелька.
type WalletDebitedEvent struct {
	UserUID    string `json:"user_uid"`
	JobID      string `json:"job_id"`
	Amount     int    `json:"amount"`
	NewBalance int    `json:"new_balance"`
}
