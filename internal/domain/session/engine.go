package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/domain/catalog"
	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/IT-Nick/assessment-bot/internal/domain/report"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// SkipToken команда пропуска необязательного шага
const SkipToken = "/skip"

// DefaultIdleTTL время неактивности, после которого сессия удаляется
const DefaultIdleTTL = time.Hour

// ErrNoActiveTest у пользователя нет активной сессии
var ErrNoActiveTest = errors.New("no active test")

// User отправитель сообщения
type User struct {
	ID       int64
	Username string
	// CompanyID компания, к которой пользователь присоединился по ссылке
	CompanyID *int64
}

// Reply ответ движка, который обработчик отправляет пользователю
type Reply struct {
	// Notice отправляется отдельным сообщением перед Text
	Notice         string
	Text           string
	Options        []string
	RemoveKeyboard bool
	// Image график, прикладывается к Text
	Image      []byte
	Completion *report.Completion
}

// Results хранилище результатов
type Results interface {
	SaveResult(ctx context.Context, s *model.Session) (int64, error)
	LatestResult(ctx context.Context, username string) (*model.Result, error)
	ResultCategoryAverages(ctx context.Context, resultID int64) (map[string]float64, error)
	LatestCompanyWithResults(ctx context.Context, creatorID int64) (model.CompanySummary, bool, error)
	CompanySummary(ctx context.Context, companyID int64) (model.CompanySummary, error)
	CompanyCategoryAverages(ctx context.Context, companyID int64, role *string) (map[string]float64, error)
	CompanyManagerResult(ctx context.Context, companyID int64, managerRole string) (*model.Result, error)
	CompanyResultsExport(ctx context.Context, companyID int64) (string, error)
}

// ChartRenderer рисует график в PNG
type ChartRenderer interface {
	Render(c report.Chart) ([]byte, error)
}

// PDFRenderer формирует PDF отчет по группе
type PDFRenderer interface {
	Render(g report.GroupEmail, chart []byte) ([]byte, error)
}

// Attachment вложение письма
type Attachment struct {
	Name string
	Data []byte
}

// Message письмо для отправки
type Message struct {
	To          string
	Subject     string
	HTML        string
	Chart       []byte
	Attachments []Attachment
}

// Mailer отправляет письма
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// Observer получает события движка для метрик
type Observer interface {
	SessionStarted()
	SessionCompleted()
	SessionCancelled()
	SessionsExpired(n int)
	ActiveSessions(n int)
	EmailDelivered(ok bool)
}

// Deps зависимости движка
type Deps struct {
	Catalog *catalog.Catalog
	Results Results
	Texts   report.Texts
	Builder *report.Builder
	Charts  ChartRenderer
	PDF     PDFRenderer
	Mailer  Mailer
	// Observer и Logger необязательны
	Observer Observer
	Logger   logrus.FieldLogger
}

// Config настройки движка
type Config struct {
	IdleTTL       time.Duration
	EmailTemplate string
	EmailSubject  string
	Contacts      report.Contacts
}

// Engine конечный автомат прохождения теста
type Engine struct {
	store    *Store
	catalog  *catalog.Catalog
	results  Results
	texts    report.Texts
	builder  *report.Builder
	charts   ChartRenderer
	pdf      PDFRenderer
	mailer   Mailer
	observer Observer
	log      logrus.FieldLogger
	validate *validator.Validate
	cfg      Config

	rndMu sync.Mutex
	rnd   *rand.Rand
	now   func() time.Time
}

// NewEngine создает новый экземпляр Engine
func NewEngine(store *Store, deps Deps, cfg Config) *Engine {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Engine{
		store:    store,
		catalog:  deps.Catalog,
		results:  deps.Results,
		texts:    deps.Texts,
		builder:  deps.Builder,
		charts:   deps.Charts,
		pdf:      deps.PDF,
		mailer:   deps.Mailer,
		observer: deps.Observer,
		log:      deps.Logger,
		validate: newValidator(),
		cfg:      cfg,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
}

// Begin начинает новый тест, заменяя уже запущенный
func (e *Engine) Begin(_ context.Context, u User) Reply {
	unlock := e.store.Lock(u.ID)
	defer unlock()

	s := model.NewSession(u.ID, u.Username, u.CompanyID, e.now())
	s.State = model.StateRole
	e.store.Set(s)
	e.observer.SessionStarted()
	e.observer.ActiveSessions(e.store.Len())

	return Reply{Text: e.texts.Get("role_select"), Options: e.catalog.RoleNames()}
}

// Handle обрабатывает текстовое сообщение пользователя в текущем состоянии сессии
func (e *Engine) Handle(ctx context.Context, u User, text string) (Reply, error) {
	unlock := e.store.Lock(u.ID)
	defer unlock()

	s, ok := e.store.Get(u.ID)
	if !ok {
		return Reply{}, ErrNoActiveTest
	}
	s.LastActive = e.now()

	switch s.State {
	case model.StateRole:
		return e.onRole(ctx, s, text)
	case model.StateIndustry:
		return e.onIndustry(s, text), nil
	case model.StateTeamSize:
		return e.onTeamSize(s, text), nil
	case model.StatePersonCost:
		return e.onPersonCost(ctx, s, text)
	case model.StateQuestion:
		return e.onQuestion(ctx, s, text)
	case model.StateOpenQuestion:
		return e.onOpenQuestion(ctx, s, text)
	case model.StateEmailCollect:
		return e.onEmail(ctx, s, text)
	case model.StateGroupEmailCollect:
		return e.onGroupEmail(ctx, s, text)
	default:
		e.store.Delete(u.ID)
		return Reply{}, ErrNoActiveTest
	}
}

// Cancel удаляет сессию пользователя. Возвращает false, если сессии не было.
func (e *Engine) Cancel(userID int64) bool {
	unlock := e.store.Lock(userID)
	defer unlock()

	ok := e.store.Delete(userID)
	if ok {
		e.observer.SessionCancelled()
		e.observer.ActiveSessions(e.store.Len())
	}
	return ok
}

// Sweep удаляет сессии, неактивные дольше настроенного времени
func (e *Engine) Sweep(now time.Time) int {
	removed := e.store.Sweep(now, e.cfg.IdleTTL)
	if len(removed) > 0 {
		e.observer.SessionsExpired(len(removed))
		e.observer.ActiveSessions(e.store.Len())
		e.log.WithField("count", len(removed)).Info("expired idle sessions")
	}
	return len(removed)
}

// State текущий шаг сессии пользователя
func (e *Engine) State(userID int64) (model.State, bool) {
	unlock := e.store.Lock(userID)
	defer unlock()

	s, ok := e.store.Get(userID)
	if !ok {
		return model.StateIdle, false
	}
	return s.State, true
}

// Active число активных сессий
func (e *Engine) Active() int {
	return e.store.Len()
}

func (e *Engine) shuffle(n int, swap func(i, j int)) {
	e.rndMu.Lock()
	defer e.rndMu.Unlock()
	e.rnd.Shuffle(n, swap)
}

type nopObserver struct{}

func (nopObserver) SessionStarted()     {}
func (nopObserver) SessionCompleted()   {}
func (nopObserver) SessionCancelled()   {}
func (nopObserver) SessionsExpired(int) {}
func (nopObserver) ActiveSessions(int)  {}
func (nopObserver) EmailDelivered(bool) {}
