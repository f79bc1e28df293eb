package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"gopkg.in/yaml.v3"
)

// Уровни рекомендаций в файле каталога
const (
	TierStrong = "strong"
	TierWeak   = "weak"
)

type file struct {
	ManagerRole     string                                     `yaml:"manager_role"`
	Categories      []model.Category                           `yaml:"categories"`
	Roles           []model.Role                               `yaml:"roles"`
	OpenQuestions   []string                                   `yaml:"open_questions"`
	Industries      []string                                   `yaml:"industries"`
	Recommendations map[string]map[string]model.Recommendation `yaml:"recommendations"`
}

// Catalog статическое описание ролей, категорий и вопросов.
// Загружается один раз при старте и далее только читается.
type Catalog struct {
	managerRole     string
	categories      []model.Category
	categoryNames   map[string]string
	categoryIDs     map[string]string
	roles           []model.Role
	roleIndex       map[string]int
	industries      []string
	recommendations map[string]map[string]model.Recommendation
}

// Load читает каталог из YAML файла
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse разбирает и проверяет содержимое каталога
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return build(f)
}

func build(f file) (*Catalog, error) {
	if len(f.Roles) == 0 {
		return nil, errors.New("catalog has no roles")
	}

	c := &Catalog{
		managerRole:     f.ManagerRole,
		categories:      f.Categories,
		categoryNames:   make(map[string]string, len(f.Categories)),
		categoryIDs:     make(map[string]string, len(f.Categories)),
		roleIndex:       make(map[string]int, len(f.Roles)),
		industries:      f.Industries,
		recommendations: f.Recommendations,
	}
	for _, cat := range f.Categories {
		if cat.ID == "" {
			return nil, errors.New("catalog category without id")
		}
		if _, dup := c.categoryNames[cat.ID]; dup {
			return nil, fmt.Errorf("duplicate category %q", cat.ID)
		}
		c.categoryNames[cat.ID] = cat.Name
		c.categoryIDs[cat.Name] = cat.ID
	}

	for i, role := range f.Roles {
		if role.ID == "" {
			return nil, fmt.Errorf("role #%d without id", i+1)
		}
		if _, dup := c.roleIndex[role.ID]; dup {
			return nil, fmt.Errorf("duplicate role %q", role.ID)
		}
		for j, rc := range role.Categories {
			name, ok := c.categoryNames[rc.ID]
			if !ok {
				return nil, fmt.Errorf("role %q references unknown category %q", role.ID, rc.ID)
			}
			role.Categories[j].Name = name
		}
		role.OpenQuestions = append([]string(nil), f.OpenQuestions...)
		c.roleIndex[role.ID] = len(c.roles)
		c.roles = append(c.roles, role)
	}

	if f.ManagerRole != "" {
		if _, ok := c.roleIndex[f.ManagerRole]; !ok {
			return nil, fmt.Errorf("manager role %q is not defined", f.ManagerRole)
		}
	}

	return c, nil
}

// Roles возвращает роли в порядке каталога
func (c *Catalog) Roles() []model.Role {
	return c.roles
}

// Role ищет роль по идентификатору
func (c *Catalog) Role(id string) (model.Role, bool) {
	i, ok := c.roleIndex[id]
	if !ok {
		return model.Role{}, false
	}
	return c.roles[i], true
}

// RoleByName ищет роль по отображаемому имени
func (c *Catalog) RoleByName(name string) (model.Role, bool) {
	for _, r := range c.roles {
		if r.Name == name {
			return r, true
		}
	}
	return model.Role{}, false
}

// RoleNames отображаемые имена ролей
func (c *Catalog) RoleNames() []string {
	names := make([]string, 0, len(c.roles))
	for _, r := range c.roles {
		names = append(names, r.Name)
	}
	return names
}

// ManagerRole идентификатор роли руководителя
func (c *Catalog) ManagerRole() string {
	return c.managerRole
}

// IsManager true, если роль является ролью руководителя
func (c *Catalog) IsManager(roleID string) bool {
	return c.managerRole != "" && roleID == c.managerRole
}

// Categories все категории в порядке каталога
func (c *Catalog) Categories() []model.Category {
	return c.categories
}

// CategoryName переводит идентификатор категории в отображаемое имя.
// Для неизвестной категории возвращается сам идентификатор.
func (c *Catalog) CategoryName(id string) string {
	if name, ok := c.categoryNames[id]; ok {
		return name
	}
	return id
}

// CategoryID обратный поиск идентификатора по отображаемому имени
func (c *Catalog) CategoryID(name string) (string, bool) {
	id, ok := c.categoryIDs[name]
	return id, ok
}

// QuestionCount количество вопросов категории у роли
func (c *Catalog) QuestionCount(roleID, categoryID string) int {
	role, ok := c.Role(roleID)
	if !ok {
		return 0
	}
	rc, ok := role.Category(categoryID)
	if !ok {
		return 0
	}
	return len(rc.Questions)
}

// Pairs все пары (категория, вопрос) роли в порядке каталога
func (c *Catalog) Pairs(roleID string) []model.PendingQuestion {
	role, ok := c.Role(roleID)
	if !ok {
		return nil
	}
	pairs := make([]model.PendingQuestion, 0, role.QuestionCount())
	for _, rc := range role.Categories {
		for _, q := range rc.Questions {
			pairs = append(pairs, model.PendingQuestion{Category: rc.ID, Prompt: q})
		}
	}
	return pairs
}

// Industries список индустрий для выбора
func (c *Catalog) Industries() []string {
	return c.industries
}

// Recommendations мероприятия для уровня и категории
func (c *Catalog) Recommendations(tier, categoryID string) model.Recommendation {
	return c.recommendations[tier][categoryID]
}
