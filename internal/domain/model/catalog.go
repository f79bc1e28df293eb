package model

// Category описывает компетенцию: идентификатор и отображаемое имя
type Category struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// RoleCategory набор вопросов категории для конкретной роли.
// Одна категория у разных ролей может иметь разные формулировки вопросов.
type RoleCategory struct {
	ID        string   `yaml:"id" json:"id"`
	Name      string   `yaml:"-" json:"name"`
	Questions []string `yaml:"questions" json:"questions"`
}

// Role представляет роль участника тестирования
type Role struct {
	ID            string         `yaml:"id" json:"id"`
	Name          string         `yaml:"name" json:"name"`
	Categories    []RoleCategory `yaml:"categories" json:"categories"`
	OpenQuestions []string       `yaml:"-" json:"open_questions"`
}

// Category возвращает категорию роли по идентификатору
func (r Role) Category(id string) (RoleCategory, bool) {
	for _, c := range r.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return RoleCategory{}, false
}

// QuestionCount количество вопросов роли во всех категориях
func (r Role) QuestionCount() int {
	n := 0
	for _, c := range r.Categories {
		n += len(c.Questions)
	}
	return n
}

// Recommendation набор мероприятий для категории: бесплатные и платные
type Recommendation struct {
	Free []string `yaml:"free" json:"free"`
	Paid []string `yaml:"paid" json:"paid"`
}
