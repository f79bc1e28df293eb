package service

import (
	"context"
	"fmt"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/IT-Nick/assessment-bot/internal/domain/results/repository"
)

// ResultService для работы с результатами и компаниями
type ResultService struct {
	repo *repository.ResultRepository
}

// NewResultService создает новый экземпляр ResultService
func NewResultService(repo *repository.ResultRepository) *ResultService {
	return &ResultService{repo: repo}
}

// Init создает схему и синхронизирует категории каталога
func (s *ResultService) Init(ctx context.Context, categories []model.Category, roles []model.Role) error {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := s.repo.SyncCatalog(ctx, categories, roles); err != nil {
		return fmt.Errorf("failed to sync catalog: %w", err)
	}
	return nil
}

// SaveResult сохраняет завершенную сессию
func (s *ResultService) SaveResult(ctx context.Context, session *model.Session) (int64, error) {
	id, err := s.repo.SaveResult(ctx, session, session.Username, session.CompanyID)
	if err != nil {
		return 0, fmt.Errorf("failed to save result: %w", err)
	}
	return id, nil
}

// StartGroup создает компанию для группового теста
func (s *ResultService) StartGroup(ctx context.Context, creatorID int64) (int64, error) {
	return s.repo.CreateCompany(ctx, creatorID)
}

// StopGroups останавливает все групповые тесты пользователя
func (s *ResultService) StopGroups(ctx context.Context, creatorID int64) (int64, error) {
	return s.repo.DeactivateCompanies(ctx, creatorID)
}

// CanJoin проверяет, можно ли присоединиться к компании
func (s *ResultService) CanJoin(ctx context.Context, companyID int64) (bool, error) {
	return s.repo.CompanyIsActive(ctx, companyID)
}

// CompanyReport выгрузка и сводка по одной компании
type CompanyReport struct {
	Summary model.CompanySummary
	CSV     string
}

// CompanyReports собирает отчеты по всем компаниям пользователя, в которых есть результаты
func (s *ResultService) CompanyReports(ctx context.Context, creatorID int64) ([]CompanyReport, error) {
	companies, err := s.repo.CompaniesByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	var reports []CompanyReport
	for _, c := range companies {
		summary, err := s.repo.CompanySummary(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if summary.Respondents == 0 {
			continue
		}
		csv, err := s.repo.CompanyResultsExport(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		reports = append(reports, CompanyReport{Summary: summary, CSV: csv})
	}
	return reports, nil
}

// HasCompanies создавал ли пользователь группы
func (s *ResultService) HasCompanies(ctx context.Context, creatorID int64) (bool, error) {
	companies, err := s.repo.CompaniesByCreator(ctx, creatorID)
	if err != nil {
		return false, err
	}
	return len(companies) > 0, nil
}

// LatestCompanyWithResults последняя компания пользователя, у которой есть результаты.
// ok=false, если у пользователя нет компаний; summary.Respondents=0, если результатов нет.
func (s *ResultService) LatestCompanyWithResults(ctx context.Context, creatorID int64) (model.CompanySummary, bool, error) {
	companies, err := s.repo.CompaniesByCreator(ctx, creatorID)
	if err != nil {
		return model.CompanySummary{}, false, err
	}
	if len(companies) == 0 {
		return model.CompanySummary{}, false, nil
	}
	for i := len(companies) - 1; i >= 0; i-- {
		summary, err := s.repo.CompanySummary(ctx, companies[i].ID)
		if err != nil {
			return model.CompanySummary{}, true, err
		}
		if summary.Respondents > 0 {
			return summary, true, nil
		}
	}
	return model.CompanySummary{}, true, nil
}

// CompanySummary сводка по компании
func (s *ResultService) CompanySummary(ctx context.Context, companyID int64) (model.CompanySummary, error) {
	return s.repo.CompanySummary(ctx, companyID)
}

// LatestResult последний результат пользователя
func (s *ResultService) LatestResult(ctx context.Context, username string) (*model.Result, error) {
	return s.repo.LatestResult(ctx, username)
}

// ResultCategoryAverages баллы по категориям одного результата
func (s *ResultService) ResultCategoryAverages(ctx context.Context, resultID int64) (map[string]float64, error) {
	return s.repo.ResultCategoryAverages(ctx, resultID)
}

// CompanyCategoryAverages баллы по категориям внутри компании
func (s *ResultService) CompanyCategoryAverages(ctx context.Context, companyID int64, role *string) (map[string]float64, error) {
	return s.repo.CompanyCategoryAverages(ctx, companyID, role)
}

// CompanyManagerResult результат руководителя компании
func (s *ResultService) CompanyManagerResult(ctx context.Context, companyID int64, managerRole string) (*model.Result, error) {
	return s.repo.CompanyManagerResult(ctx, companyID, managerRole)
}

// CompanyResultsExport CSV выгрузка компании
func (s *ResultService) CompanyResultsExport(ctx context.Context, companyID int64) (string, error) {
	return s.repo.CompanyResultsExport(ctx, companyID)
}

// CategoryAverages средние по категориям для всех результатов
func (s *ResultService) CategoryAverages(ctx context.Context, role *string) (map[string]float64, error) {
	return s.repo.CategoryAverages(ctx, role)
}

// Stats статистика для администраторов
func (s *ResultService) Stats(ctx context.Context, managerRole string) (model.Stats, []model.IndustryCount, error) {
	st, err := s.repo.Stats(ctx, managerRole)
	if err != nil {
		return st, nil, err
	}
	industries, err := s.repo.IndustryCounts(ctx)
	if err != nil {
		return st, nil, err
	}
	return st, industries, nil
}
