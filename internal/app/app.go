package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/app/handlers/http/health_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/about_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/answer_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/cancel_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/categories_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/group_test_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/my_results_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/ping_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/recommendations_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/start_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/start_test_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/stats_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/stop_group_test_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/middleware"
	"github.com/IT-Nick/assessment-bot/internal/domain/catalog"
	"github.com/IT-Nick/assessment-bot/internal/domain/locale"
	"github.com/IT-Nick/assessment-bot/internal/domain/report"
	"github.com/IT-Nick/assessment-bot/internal/domain/results/repository"
	"github.com/IT-Nick/assessment-bot/internal/domain/results/service"
	"github.com/IT-Nick/assessment-bot/internal/domain/session"
	"github.com/IT-Nick/assessment-bot/internal/infra/chart"
	"github.com/IT-Nick/assessment-bot/internal/infra/config"
	"github.com/IT-Nick/assessment-bot/internal/infra/logger"
	"github.com/IT-Nick/assessment-bot/internal/infra/mailer"
	"github.com/IT-Nick/assessment-bot/internal/infra/metrics"
	"github.com/IT-Nick/assessment-bot/internal/infra/pdf"
	"github.com/IT-Nick/assessment-bot/internal/infra/poller"
	"github.com/IT-Nick/assessment-bot/internal/infra/sweeper"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

const shutdownTimeout = 10 * time.Second

// commands команды бота, по которым считаются метрики
var commands = []string{
	"/start", "/about", "/starttest", "/cancel", "/skip",
	"/grouptest", "/stopgrouptest", "/myresults",
	"/getrecommendations", "/grouprecommendations",
	"/ping", "/stats", "/categories",
}

type Services struct {
	resultService *service.ResultService
	engine        *session.Engine
	members       *session.Members
}

type App struct {
	config  *config.Config
	log     *logrus.Logger
	bot     *telebot.Bot
	db      *pgxpool.Pool
	server  *http.Server
	metrics *metrics.Metrics
	catalog *catalog.Catalog
	texts   *locale.Locale

	Services
}

func NewApp(ctx context.Context, configPath string) (*App, error) {
	configImpl, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config.LoadConfig: %w", err)
	}
	log := logger.New(configImpl.LogLevel)

	cat, err := catalog.Load(configImpl.Files.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	texts := locale.New(nil)
	if configImpl.Files.Locales != "" {
		if texts, err = locale.Load(configImpl.Files.Locales); err != nil {
			return nil, err
		}
	} else {
		log.Warn("locales file is not set, keys will be shown instead of texts")
	}

	db, err := InitDatabase(ctx, configImpl, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		config:  configImpl,
		log:     log,
		db:      db,
		metrics: metrics.New(),
		catalog: cat,
		texts:   texts,
	}

	if err := app.initServices(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return app, nil
}

// initServices создает репозиторий, сервисы и движок сессий
func (app *App) initServices(ctx context.Context) error {
	resultRepo := repository.NewResultRepository(app.db)
	app.resultService = service.NewResultService(resultRepo)
	if err := app.resultService.Init(ctx, app.catalog.Categories(), app.catalog.Roles()); err != nil {
		return fmt.Errorf("failed to initialize results storage: %w", err)
	}

	template, err := app.emailTemplate()
	if err != nil {
		return err
	}

	cfg := app.config
	contacts := report.Contacts{
		Number: cfg.Contacts.ConsultationNumber,
		Link:   cfg.Contacts.Link,
		Mail:   cfg.Contacts.Mail,
	}
	builder := report.NewBuilder(app.texts, report.Options{
		FreeEmoji: cfg.Recommendations.FreeEmoji,
		PaidEmoji: cfg.Recommendations.PaidEmoji,
		Contacts:  contacts,
	})

	app.members = session.NewMembers()
	app.engine = session.NewEngine(session.NewStore(), session.Deps{
		Catalog:  app.catalog,
		Results:  app.resultService,
		Texts:    app.texts,
		Builder:  builder,
		Charts:   chart.NewRenderer(),
		PDF:      pdf.NewRenderer(cfg.Files.PDFFont, cfg.Files.PDFFontBold),
		Mailer:   mailer.New(cfg.Email.SMTPServer, cfg.Email.SMTPPort, cfg.Email.SenderEmail, cfg.Email.Password),
		Observer: app.metrics,
		Logger:   app.log.WithField("component", "session"),
	}, session.Config{
		IdleTTL:       cfg.Session.IdleTTL,
		EmailTemplate: template,
		EmailSubject:  cfg.Email.Subject,
		Contacts:      contacts,
	})
	return nil
}

// emailTemplate HTML шаблон письма. Без файла письмо состоит только из содержимого.
func (app *App) emailTemplate() (string, error) {
	path := app.config.Files.EmailTemplate
	if path == "" {
		return "CONTENT", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read email template %s: %w", path, err)
	}
	return string(data), nil
}

// initTelegram создает бота и регистрирует обработчики
func (app *App) initTelegram() error {
	p, err := poller.New(app.config)
	if err != nil {
		return fmt.Errorf("poller.New: %w", err)
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  app.config.TelegramBot.Token,
		Poller: p,
		OnError: func(err error, c telebot.Context) {
			app.log.WithError(err).Error("telegram update failed")
		},
	})
	if err != nil {
		return fmt.Errorf("telebot.NewBot: %w", err)
	}
	app.bot = bot

	app.bootstrapHandlersTelegram()
	return nil
}

// bootstrapHandlersTelegram - регистрирует обработчики для бота
func (app *App) bootstrapHandlersTelegram() {
	texts := app.texts
	log := app.log.WithField("component", "telegram")

	app.bot.Use(
		middleware.Recover(log, func(err error, c telebot.Context) {
			log.WithError(err).Error("recovered from panic")
			_ = c.Send(texts.Get("error"))
		}),
		middleware.Logger(app.log),
		middleware.Metrics(app.metrics.Update, commands...),
		middleware.DebugUserActions(app.config.Debug, app.engine),
	)

	app.bot.Handle("/start", start_handler.NewStartHandler(app.resultService, app.members, texts, log).GetHandlerFunc())
	app.bot.Handle("/about", about_handler.NewAboutHandler(texts).GetHandlerFunc())
	app.bot.Handle("/starttest", start_test_handler.NewStartTestHandler(app.engine, app.members).GetHandlerFunc())
	app.bot.Handle("/cancel", cancel_handler.NewCancelHandler(app.engine, texts, log).GetHandlerFunc())

	// Групповое тестирование
	app.bot.Handle("/grouptest", group_test_handler.NewGroupTestHandler(app.resultService, app.members, app.bot.Me.Username, texts, log).GetHandlerFunc())
	app.bot.Handle("/stopgrouptest", stop_group_test_handler.NewStopGroupTestHandler(app.resultService, app.members, texts, log).GetHandlerFunc())
	app.bot.Handle("/myresults", my_results_handler.NewMyResultsHandler(app.resultService, texts, log).GetHandlerFunc())

	// Рекомендации на почту
	app.bot.Handle("/getrecommendations", recommendations_handler.NewRecommendationsHandler(app.engine, app.members, texts, log).GetHandlerFunc())
	app.bot.Handle("/grouprecommendations", recommendations_handler.NewGroupRecommendationsHandler(app.engine, app.members, texts, log).GetHandlerFunc())

	// Ответы на вопросы, пропуск необязательных шагов и ввод почты идут через текущую сессию
	answer := answer_handler.NewAnswerHandler(app.engine, app.members, texts, log).GetHandlerFunc()
	app.bot.Handle("/skip", answer)
	app.bot.Handle(telebot.OnText, answer)

	admin := app.bot.Group()
	admin.Use(middleware.AdminOnly(app.config.IsAdmin, log))
	admin.Handle("/ping", ping_handler.NewPingHandler().GetHandlerFunc())
	admin.Handle("/stats", stats_handler.NewStatsHandler(app.resultService, app.catalog.ManagerRole(), texts, log).GetHandlerFunc())
	admin.Handle("/categories", categories_handler.NewCategoriesHandler(app.resultService, app.catalog, texts, log).GetHandlerFunc())
}

// ListenAndServeTelegram запускает бота в отдельной горутине
func (app *App) ListenAndServeTelegram() error {
	if err := app.initTelegram(); err != nil {
		return err
	}
	go app.bot.Start()
	app.log.WithFields(logrus.Fields{
		"bot":  app.bot.Me.Username,
		"mode": app.config.TelegramBot.Mode,
	}).Info("telegram bot started")
	return nil
}

func (app *App) newHTTPServer() *http.Server {
	mx := http.NewServeMux()

	mx.Handle("GET /healthz", health_handler.NewHealthHandler(app.db, app.engine, app.log))
	mx.Handle("GET /metrics", app.metrics.Handler())

	return &http.Server{
		Addr:              net.JoinHostPort(app.config.Server.Host, app.config.Server.Port),
		Handler:           mx,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// ListenAndServeHTTP запускает HTTP сервер с проверкой здоровья и метриками
func (app *App) ListenAndServeHTTP() error {
	if app.server == nil {
		app.server = app.newHTTPServer()
	}
	app.log.WithField("addr", app.server.Addr).Info("http server started")
	return app.server.ListenAndServe()
}

// ListenAndServe запускает бота, очистку сессий и HTTP сервер. Блокируется до отмены ctx.
func (app *App) ListenAndServe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := app.ListenAndServeTelegram(); err != nil {
		return fmt.Errorf("failed to start Telegram bot: %w", err)
	}

	go sweeper.New(app.engine, app.config.Session.SweepInterval, app.log.WithField("component", "sweeper")).Run(ctx)

	app.server = app.newHTTPServer()
	errCh := make(chan error, 1)
	go func() {
		if err := app.ListenAndServeHTTP(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		app.shutdown()
		return err
	}
	app.shutdown()
	return nil
}

func (app *App) shutdown() {
	app.log.Info("shutting down")
	if app.bot != nil {
		app.bot.Stop()
	}
	if app.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.server.Shutdown(ctx); err != nil {
			app.log.WithError(err).Error("failed to shutdown http server")
		}
	}
	app.db.Close()
}
