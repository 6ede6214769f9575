package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
	"github.com/HOLYLABS972/esim-main-sub002/internal/repository"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
	"github.com/HOLYLABS972/esim-main-sub002/pkg/dataplans"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func defaultTestSettings() *models.PricingSettings {
	return &models.PricingSettings{
		Referral:                        models.DiscountConfig{DiscountPercentage: d("17"), MinimumPrice: d("0.50")},
		Regular:                         models.DiscountConfig{DiscountPercentage: d("10"), MinimumPrice: d("0.50")},
		TransactionCommissionPercentage: d("5"),
		MinimumWithdrawal:               d("50"),
		SyncEnabled:                     true,
	}
}

type fakeSettingsStore struct {
	settings *models.PricingSettings
	getCalls int
	updates  int
}

func (f *fakeSettingsStore) Get(ctx context.Context) (*models.PricingSettings, error) {
	f.getCalls++
	copy := *f.settings
	return &copy, nil
}

func (f *fakeSettingsStore) Update(ctx context.Context, s *models.PricingSettings) error {
	f.updates++
	copy := *s
	f.settings = &copy
	return nil
}

type fakeSettingsCache struct {
	cached      *models.PricingSettings
	invalidated int
}

func (f *fakeSettingsCache) Get(ctx context.Context) (*models.PricingSettings, error) {
	return f.cached, nil
}

func (f *fakeSettingsCache) Set(ctx context.Context, s *models.PricingSettings) error {
	copy := *s
	f.cached = &copy
	return nil
}

func (f *fakeSettingsCache) Invalidate(ctx context.Context) error {
	f.invalidated++
	f.cached = nil
	return nil
}

func newTestSettingsService() *SettingsService {
	return NewSettingsService(&fakeSettingsStore{settings: defaultTestSettings()}, nil)
}

type fakeCatalogSource struct {
	countries []dataplans.Country
	plans     []dataplans.Plan
	err       error
}

func (f *fakeCatalogSource) GetCountries(ctx context.Context) ([]dataplans.Country, error) {
	return f.countries, f.err
}

func (f *fakeCatalogSource) GetPlans(ctx context.Context) ([]dataplans.Plan, error) {
	return f.plans, f.err
}

type fakeCatalogStore struct {
	countries []models.Country
	plans     []models.Plan
	batches   int
	failBatch int // 1-based batch number to fail on, 0 = never
	logs      []models.SyncLog
}

func (f *fakeCatalogStore) UpsertBatch(ctx context.Context, countries []models.Country, plans []models.Plan) error {
	f.batches++
	if f.failBatch != 0 && f.batches >= f.failBatch {
		return context.DeadlineExceeded
	}
	f.countries = append(f.countries, countries...)
	f.plans = append(f.plans, plans...)
	return nil
}

func (f *fakeCatalogStore) CreateSyncLog(ctx context.Context, entry *models.SyncLog) error {
	f.logs = append(f.logs, *entry)
	return nil
}

type staticRates struct{}

func (staticRates) Base() string { return "USD" }

func (staticRates) Normalize(amount decimal.Decimal, sourceCurrency string) decimal.Decimal {
	switch sourceCurrency {
	case "THB":
		return amount.Mul(d("0.028"))
	case "CNY":
		return amount.Mul(d("0.14"))
	default:
		return amount
	}
}

// fakeLedger keeps an in-memory per-user ledger with the same append and
// dedup semantics as the real store, guarded by one mutex.
type fakeLedger struct {
	mu      sync.Mutex
	entries map[string][]*models.Transaction
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: make(map[string][]*models.Transaction)}
}

func (f *fakeLedger) Append(ctx context.Context, p repository.AppendParams) (*models.Transaction, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p.Type == models.TrxTypeCommission && p.Reference != nil {
		for _, list := range f.entries {
			for _, trx := range list {
				if trx.Type == models.TrxTypeCommission && trx.Reference != nil && *trx.Reference == *p.Reference {
					return trx, true, nil
				}
			}
		}
	}

	before := decimal.Zero
	if list := f.entries[p.UserID]; len(list) > 0 {
		before = list[len(list)-1].BalanceAfter
	}
	trx := &models.Transaction{
		UserID:        p.UserID,
		Type:          p.Type,
		Amount:        p.Amount,
		BalanceBefore: before,
		BalanceAfter:  before.Add(p.Amount),
		Status:        p.Status,
		Method:        p.Method,
		Reference:     p.Reference,
		ReferralCode:  p.ReferralCode,
		Description:   p.Description,
	}
	f.entries[p.UserID] = append(f.entries[p.UserID], trx)
	return trx, false, nil
}

func (f *fakeLedger) CurrentBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if list := f.entries[userID]; len(list) > 0 {
		return list[len(list)-1].BalanceAfter, nil
	}
	return decimal.Zero, nil
}

type fakeReferralStore struct {
	mu         sync.Mutex
	codes      map[string]*models.ReferralCode
	users      map[string]*models.User
	collisions int // Create fails with ErrCodeCollision this many times
}

func newFakeReferralStore() *fakeReferralStore {
	return &fakeReferralStore{
		codes: make(map[string]*models.ReferralCode),
		users: make(map[string]*models.User),
	}
}

func (f *fakeReferralStore) Create(ctx context.Context, code *models.ReferralCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.collisions > 0 {
		f.collisions--
		return utils.ErrCodeCollision
	}
	if _, ok := f.codes[code.Code]; ok {
		return utils.ErrCodeCollision
	}
	for _, rc := range f.codes {
		if rc.OwnerID == code.OwnerID && rc.IsActive {
			return utils.ErrCodeAlreadyExists
		}
	}
	code.IsActive = true
	f.codes[code.Code] = code
	return nil
}

func (f *fakeReferralStore) GetByCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rc, ok := f.codes[code]
	if !ok {
		return nil, utils.ErrCodeNotFound
	}
	return rc, nil
}

func (f *fakeReferralStore) GetActiveByOwner(ctx context.Context, ownerID string) (*models.ReferralCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rc := range f.codes {
		if rc.OwnerID == ownerID && rc.IsActive {
			return rc, nil
		}
	}
	return nil, utils.ErrCodeNotFound
}

func (f *fakeReferralStore) Redeem(ctx context.Context, code, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := f.users[userID]
	if user == nil {
		user = &models.User{ID: userID}
		f.users[userID] = user
	}
	if user.ReferralCodeUsed != nil {
		return utils.ErrCodeAlreadyUsed
	}
	rc, ok := f.codes[code]
	if !ok {
		return utils.ErrCodeNotFound
	}
	if rc.OwnerID == userID {
		return utils.ErrSelfReferral
	}
	rc.UsageCount++
	c := code
	user.ReferralCodeUsed = &c
	return nil
}

func (f *fakeReferralStore) AddEarnings(ctx context.Context, code string, amount decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rc, ok := f.codes[code]; ok {
		rc.TotalEarnings = rc.TotalEarnings.Add(amount)
	}
	return nil
}

func (f *fakeReferralStore) SetEarnings(ctx context.Context, code string, total decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rc, ok := f.codes[code]; ok {
		rc.TotalEarnings = total
	}
	return nil
}

func (f *fakeReferralStore) SetCodeOnUser(ctx context.Context, userID, code, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := f.users[userID]
	if user == nil {
		user = &models.User{ID: userID, Email: email}
		f.users[userID] = user
	}
	c := code
	user.ReferralCode = &c
	return nil
}

func (f *fakeReferralStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return user, nil
}

type fakeEarnings struct {
	total  decimal.Decimal
	unpaid decimal.Decimal
	recent []models.Transaction
}

func (f *fakeEarnings) SumCommissionEarnings(ctx context.Context, userID string) (decimal.Decimal, error) {
	return f.total, nil
}

func (f *fakeEarnings) SumUnpaidCommissions(ctx context.Context, userID string) (decimal.Decimal, error) {
	return f.unpaid, nil
}

func (f *fakeEarnings) ListRecentCommissions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	return f.recent, nil
}
