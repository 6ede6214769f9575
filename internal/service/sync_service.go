package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
	"github.com/HOLYLABS972/esim-main-sub002/pkg/dataplans"
)

// defaultBatchSize bounds how many catalog rows one upsert transaction
// carries. Batches commit independently and in order.
const defaultBatchSize = 500

type catalogSource interface {
	GetCountries(ctx context.Context) ([]dataplans.Country, error)
	GetPlans(ctx context.Context) ([]dataplans.Plan, error)
}

type catalogStore interface {
	UpsertBatch(ctx context.Context, countries []models.Country, plans []models.Plan) error
	CreateSyncLog(ctx context.Context, entry *models.SyncLog) error
}

type priceNormalizer interface {
	Base() string
	Normalize(amount decimal.Decimal, sourceCurrency string) decimal.Decimal
}

// SyncResult summarizes one catalog sync run.
type SyncResult struct {
	CountriesWritten int      `json:"countriesWritten"`
	PlansWritten     int      `json:"plansWritten"`
	Errors           []string `json:"errors,omitempty"`
}

// SyncService pulls the provider catalog and merges it into the local
// store. A record that fails validation is skipped and reported; it never
// aborts the run. A failed batch write aborts the remaining batches, but
// batches already committed stay committed.
type SyncService struct {
	source    catalogSource
	store     catalogStore
	rates     priceNormalizer
	settings  *SettingsService
	batchSize int
}

// NewSyncService creates a new SyncService.
func NewSyncService(source catalogSource, store catalogStore, rates priceNormalizer, settings *SettingsService) *SyncService {
	return &SyncService{
		source:    source,
		store:     store,
		rates:     rates,
		settings:  settings,
		batchSize: defaultBatchSize,
	}
}

// Run executes one full catalog sync. source labels the trigger in the
// sync log ("scheduled" or "manual").
func (s *SyncService) Run(ctx context.Context, source string) (*SyncResult, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.SyncEnabled {
		return nil, utils.ErrSyncDisabled
	}

	started := time.Now()
	log.Info().Str("source", source).Msg("catalog sync started")

	rawCountries, err := s.source.GetCountries(ctx)
	if err != nil {
		s.writeLog(ctx, &SyncResult{Errors: []string{err.Error()}}, "failed", source)
		return nil, &utils.TransientError{Op: "fetch countries", Err: err}
	}
	rawPlans, err := s.source.GetPlans(ctx)
	if err != nil {
		s.writeLog(ctx, &SyncResult{Errors: []string{err.Error()}}, "failed", source)
		return nil, &utils.TransientError{Op: "fetch plans", Err: err}
	}

	result := &SyncResult{}
	countries := s.prepareCountries(rawCountries, result)
	plans := s.preparePlans(rawPlans, result)

	if err := s.writeBatches(ctx, countries, plans, result); err != nil {
		result.Errors = append(result.Errors, err.Error())
		s.writeLog(ctx, result, "failed", source)
		return result, &utils.TransientError{Op: "write sync batch", Err: err}
	}

	status := "completed"
	if len(result.Errors) > 0 {
		status = "completed_with_errors"
	}
	s.writeLog(ctx, result, status, source)

	log.Info().
		Str("source", source).
		Int("countries", result.CountriesWritten).
		Int("plans", result.PlansWritten).
		Int("errors", len(result.Errors)).
		Dur("elapsed", time.Since(started)).
		Msg("catalog sync finished")
	return result, nil
}

func (s *SyncService) prepareCountries(raw []dataplans.Country, result *SyncResult) []models.Country {
	countries := make([]models.Country, 0, len(raw))
	for _, c := range raw {
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		name := strings.TrimSpace(c.Name)
		if code == "" || name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("country skipped: missing code or name (code=%q name=%q)", c.Code, c.Name))
			continue
		}
		country := models.Country{Code: code, Name: name}
		if c.FlagURL != "" {
			flag := c.FlagURL
			country.FlagURL = &flag
		}
		countries = append(countries, country)
	}
	return countries
}

func (s *SyncService) preparePlans(raw []dataplans.Plan, result *SyncResult) []models.Plan {
	plans := make([]models.Plan, 0, len(raw))
	for _, p := range raw {
		slug := strings.TrimSpace(p.Slug)
		if slug == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("plan skipped: missing slug (name=%q)", p.Name))
			continue
		}
		if p.Name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("plan %s skipped: missing name", slug))
			continue
		}
		if p.Price.IsNegative() {
			result.Errors = append(result.Errors, fmt.Sprintf("plan %s skipped: negative price %s", slug, p.Price))
			continue
		}

		codes := make([]string, 0, len(p.CountryCodes))
		for _, cc := range p.CountryCodes {
			if cc = strings.ToUpper(strings.TrimSpace(cc)); cc != "" {
				codes = append(codes, cc)
			}
		}

		plans = append(plans, models.Plan{
			Slug:             slug,
			Name:             p.Name,
			Description:      p.Description,
			Price:            s.rates.Normalize(p.Price, p.Currency).Round(2),
			Currency:         s.rates.Base(),
			OriginalPrice:    p.Price,
			OriginalCurrency: strings.ToUpper(p.Currency),
			CapacityGB:       p.CapacityGB,
			Unlimited:        p.Unlimited,
			PeriodDays:       p.PeriodDays,
			CountryCodes:     pq.StringArray(codes),
			Region:           p.Region,
			Operator:         p.Operator,
		})
	}
	return plans
}

// writeBatches commits countries first, then plans, in fixed-size chunks.
// Each chunk is one atomic store transaction.
func (s *SyncService) writeBatches(ctx context.Context, countries []models.Country, plans []models.Plan, result *SyncResult) error {
	for start := 0; start < len(countries); start += s.batchSize {
		end := min(start+s.batchSize, len(countries))
		if err := s.store.UpsertBatch(ctx, countries[start:end], nil); err != nil {
			return fmt.Errorf("countries batch %d-%d: %w", start, end, err)
		}
		result.CountriesWritten += end - start
	}
	for start := 0; start < len(plans); start += s.batchSize {
		end := min(start+s.batchSize, len(plans))
		if err := s.store.UpsertBatch(ctx, nil, plans[start:end]); err != nil {
			return fmt.Errorf("plans batch %d-%d: %w", start, end, err)
		}
		result.PlansWritten += end - start
	}
	return nil
}

func (s *SyncService) writeLog(ctx context.Context, result *SyncResult, status, source string) {
	entry := &models.SyncLog{
		CountriesWritten: result.CountriesWritten,
		PlansWritten:     result.PlansWritten,
		ErrorCount:       len(result.Errors),
		Errors:           pq.StringArray(result.Errors),
		Status:           status,
		Source:           source,
	}
	if err := s.store.CreateSyncLog(ctx, entry); err != nil {
		log.Error().Err(err).Msg("failed to write sync log")
	}
}
