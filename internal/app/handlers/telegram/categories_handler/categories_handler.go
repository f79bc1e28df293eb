package categories_handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/reply"
	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

// Averages средние по категориям с необязательным фильтром роли
type Averages interface {
	CategoryAverages(ctx context.Context, role *string) (map[string]float64, error)
}

// Catalog роли и порядок категорий
type Catalog interface {
	Categories() []model.Category
	Role(id string) (model.Role, bool)
	RoleByName(name string) (model.Role, bool)
}

// CategoriesHandler обработчик /categories [роль] для администраторов
type CategoriesHandler struct {
	averages Averages
	catalog  Catalog
	texts    reply.Texts
	log      logrus.FieldLogger
}

func NewCategoriesHandler(averages Averages, catalog Catalog, texts reply.Texts, log logrus.FieldLogger) *CategoriesHandler {
	return &CategoriesHandler{averages: averages, catalog: catalog, texts: texts, log: log}
}

// Handle выводит средний балл каждой категории. Роль можно указать id или названием.
func (h *CategoriesHandler) Handle(c telebot.Context) error {
	var role *string
	title := "все роли"
	if args := c.Args(); len(args) > 0 {
		arg := strings.Join(args, " ")
		r, ok := h.catalog.Role(arg)
		if !ok {
			r, ok = h.catalog.RoleByName(arg)
		}
		if !ok {
			return c.Send(fmt.Sprintf("Неизвестная роль: %s", arg))
		}
		role, title = &r.ID, r.Name
	}

	averages, err := h.averages.CategoryAverages(context.Background(), role)
	if err != nil {
		return reply.Error(c, h.texts, h.log, err)
	}
	if len(averages) == 0 {
		return c.Send("Результатов пока нет")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Средние по категориям (%s):", title)
	for _, cat := range h.catalog.Categories() {
		if v, ok := averages[cat.Name]; ok {
			fmt.Fprintf(&sb, "\n%s: %.2f", cat.Name, v)
		}
	}
	return c.Send(sb.String())
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *CategoriesHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
