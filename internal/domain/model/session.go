package model

import "time"

// State шаг диалога тестирования
type State int

const (
	StateIdle State = iota
	StateRole
	StateIndustry
	StateTeamSize
	StatePersonCost
	StateQuestion
	StateOpenQuestion
	StateEmailCollect
	StateGroupEmailCollect
)

var stateNames = map[State]string{
	StateIdle:              "idle",
	StateRole:              "role",
	StateIndustry:          "industry",
	StateTeamSize:          "team_size",
	StatePersonCost:        "person_cost",
	StateQuestion:          "question",
	StateOpenQuestion:      "open_question",
	StateEmailCollect:      "email_collect",
	StateGroupEmailCollect: "group_email_collect",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// AverageMode способ расчета общего среднего
type AverageMode int

const (
	// CompletionWeighted сумма баллов делится на число отвеченных и оставшихся вопросов
	CompletionWeighted AverageMode = iota
	// CategoryMean среднее уже посчитанных средних по категориям
	CategoryMean
)

func (m AverageMode) String() string {
	if m == CategoryMean {
		return "category_mean"
	}
	return "completion_weighted"
}

// PendingQuestion вопрос в очереди вместе с категорией
type PendingQuestion struct {
	Category string
	Prompt   string
}

// Answer ответ на числовой вопрос. Category фиксируется в момент, когда вопрос был задан.
type Answer struct {
	Question string
	Rating   int
	Category string
}

// OpenAnswer ответ на открытый вопрос
type OpenAnswer struct {
	Question string
	Text     string
}

// Session незавершенная попытка прохождения теста одним пользователем
type Session struct {
	UserID    int64
	Username  string
	CompanyID *int64
	State     State

	RoleID     string
	Industry   *string
	TeamSize   *int
	PersonCost *string

	// Categories хранит порядок категорий, Scores хранит накопленные баллы
	Categories []string
	Scores     map[string]float64

	Pending     []PendingQuestion
	PendingOpen []string
	Current     *PendingQuestion
	CurrentOpen string

	Answers     []Answer
	OpenAnswers []OpenAnswer

	Mode       AverageMode
	LastActive time.Time
}

// NewSession создает пустую сессию пользователя
func NewSession(userID int64, username string, companyID *int64, now time.Time) *Session {
	return &Session{
		UserID:     userID,
		Username:   username,
		CompanyID:  companyID,
		State:      StateIdle,
		Scores:     make(map[string]float64),
		LastActive: now,
	}
}

// InGroup true, если пользователь проходит тест в составе компании
func (s *Session) InGroup() bool {
	return s.CompanyID != nil
}

// SetScore задает балл категории, сохраняя порядок первого появления
func (s *Session) SetScore(category string, score float64) {
	if s.Scores == nil {
		s.Scores = make(map[string]float64)
	}
	if _, ok := s.Scores[category]; !ok {
		s.Categories = append(s.Categories, category)
	}
	s.Scores[category] = score
}

// AddScore прибавляет оценку к накопленному баллу категории
func (s *Session) AddScore(category string, rating int) {
	s.SetScore(category, s.Scores[category]+float64(rating))
}

// Answered число отвеченных числовых вопросов
func (s *Session) Answered() int {
	return len(s.Answers)
}
