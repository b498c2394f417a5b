package models

// Категории тарифных планов в каталоге.
const (
	PlanCategoryMembership = "membership"
	PlanCategoryService    = "service"
)

// Plan представляет тарифный план из каталога.
// Лимит откликов может быть задан числовым полем MaxJobsLimit
// либо закодирован текстом в Features ("Up to N hot jobs") —
// унаследованная от исходных данных свободная схема.
type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Currency     string   `json:"currency"`
	Price        int      `json:"price"`
	Features     []string `json:"features"`
	MaxJobsLimit *int     `json:"maxjobslimit,omitempty"`
}

// ResolvedPlan результат разрешения активного плана пользователя.
// Plan равен nil, если у пользователя нет активного плана категории service.
type ResolvedPlan struct {
	Plan         *Plan `json:"plan"`                  // Активный план (nil — плана нет)
	IsExpired    bool  `json:"is_expired"`            // Истёк ли план
	IsPayAsYouGo bool  `json:"is_pay_as_you_go"`      // Является ли план Pay-As-You-Go
	HotJobLimit  *int  `json:"hot_job_limit,omitempty"` // Месячный лимит откликов (nil — план не задаёт лимит)
}

// HasPlan сообщает, удалось ли разрешить действующий план.
func (r ResolvedPlan) HasPlan() bool {
	return r.Plan != nil
}
