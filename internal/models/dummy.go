package models

// DummyTopUp используется для приёма запроса на пополнение кошелька из JSON.
type DummyTopUp struct {
	Amount int `json:"amount" validate:"required,gt=0"` // Сумма пополнения (>0)
}

// DummyDeduct используется для приёма запроса на списание с кошелька.
// Запрос приходит от доверенной границы и подписан HMAC-подписью:
// клиентскому флагу "уже списано" сервер не доверяет никогда.
type DummyDeduct struct {
	UserUID        string `json:"user_uid" validate:"required,uuid"`  // Идентификатор пользователя
	JobID          string `json:"job_id" validate:"required"`         // Идентификатор вакансии
	Amount         int    `json:"amount" validate:"required,gt=0"`    // Сумма списания
	Timestamp      int64  `json:"timestamp" validate:"required"`      // Unix-время формирования запроса
	IdempotencyKey string `json:"idempotency_key" validate:"required"` // Ключ идемпотентности повторов
	Signature      string `json:"signature" validate:"required"`      // HMAC-SHA256 подпись полезной нагрузки
}

// DeductResult результат списания с кошелька.
type DeductResult struct {
	Success    bool `json:"success"`
	NewBalance int  `json:"new_balance"`
	Replayed   bool `json:"replayed,omitempty"` // Повтор с тем же ключом идемпотентности
}
