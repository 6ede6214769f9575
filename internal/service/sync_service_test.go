package service

import (
	"context"
	"errors"
	"testing"

	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
	"github.com/HOLYLABS972/esim-main-sub002/pkg/dataplans"
)

func newTestSyncService(source *fakeCatalogSource, store *fakeCatalogStore) *SyncService {
	return NewSyncService(source, store, staticRates{}, newTestSettingsService())
}

func TestSyncRunNormalizesAndWrites(t *testing.T) {
	source := &fakeCatalogSource{
		countries: []dataplans.Country{
			{Code: "th", Name: "Thailand", FlagURL: "https://cdn.example.com/th.png"},
		},
		plans: []dataplans.Plan{
			{Slug: "th-7d", Name: "TH 7d", Price: d("100"), Currency: "THB", CountryCodes: []string{"th"}},
		},
	}
	store := &fakeCatalogStore{}

	result, err := newTestSyncService(source, store).Run(context.Background(), "manual")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.CountriesWritten != 1 || result.PlansWritten != 1 {
		t.Errorf("written = %d/%d, want 1/1", result.CountriesWritten, result.PlansWritten)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}

	if got := store.countries[0].Code; got != "TH" {
		t.Errorf("country code = %q, want TH", got)
	}
	plan := store.plans[0]
	if !plan.Price.Equal(d("2.80")) {
		t.Errorf("normalized price = %s, want 2.80", plan.Price)
	}
	if plan.Currency != "USD" || plan.OriginalCurrency != "THB" {
		t.Errorf("currency = %s/%s, want USD/THB", plan.Currency, plan.OriginalCurrency)
	}
	if !plan.OriginalPrice.Equal(d("100")) {
		t.Errorf("original price = %s, want 100", plan.OriginalPrice)
	}

	if len(store.logs) != 1 || store.logs[0].Status != "completed" {
		t.Fatalf("sync log = %+v, want one completed entry", store.logs)
	}
}

func TestSyncRunSkipsInvalidRecords(t *testing.T) {
	source := &fakeCatalogSource{
		countries: []dataplans.Country{
			{Code: "TH", Name: "Thailand"},
			{Code: "", Name: "Nowhere"},
			{Code: "XX", Name: ""},
		},
		plans: []dataplans.Plan{
			{Slug: "th-7d", Name: "TH 7d", Price: d("10"), Currency: "USD"},
			{Slug: "", Name: "Orphan"},
			{Slug: "no-name", Name: ""},
		},
	}
	store := &fakeCatalogStore{}

	result, err := newTestSyncService(source, store).Run(context.Background(), "manual")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.CountriesWritten != 1 || result.PlansWritten != 1 {
		t.Errorf("written = %d/%d, want 1/1", result.CountriesWritten, result.PlansWritten)
	}
	if len(result.Errors) != 4 {
		t.Errorf("errors = %v, want 4 soft errors", result.Errors)
	}
	if store.logs[0].Status != "completed_with_errors" {
		t.Errorf("log status = %q, want completed_with_errors", store.logs[0].Status)
	}
}

func TestSyncRunSkipsNegativePrices(t *testing.T) {
	// A malformed price must cost one record, never the batch it rides in.
	source := &fakeCatalogSource{
		plans: []dataplans.Plan{
			{Slug: "good-plan", Name: "Good", Price: d("10"), Currency: "USD"},
			{Slug: "bad-plan", Name: "Bad", Price: d("-3.00"), Currency: "USD"},
			{Slug: "also-good", Name: "Also good", Price: d("5"), Currency: "USD"},
		},
	}
	store := &fakeCatalogStore{}

	result, err := newTestSyncService(source, store).Run(context.Background(), "manual")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.PlansWritten != 2 {
		t.Errorf("PlansWritten = %d, want 2", result.PlansWritten)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want one soft error", result.Errors)
	}
	for _, p := range store.plans {
		if p.Slug == "bad-plan" {
			t.Error("negative-price plan reached the store")
		}
	}
}

func TestSyncRunChunksBatches(t *testing.T) {
	source := &fakeCatalogSource{}
	for i := 0; i < 5; i++ {
		source.plans = append(source.plans, dataplans.Plan{
			Slug: string(rune('a'+i)) + "-plan", Name: "Plan", Price: d("10"), Currency: "USD",
		})
	}
	store := &fakeCatalogStore{}

	svc := newTestSyncService(source, store)
	svc.batchSize = 2

	result, err := svc.Run(context.Background(), "scheduled")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.PlansWritten != 5 {
		t.Errorf("PlansWritten = %d, want 5", result.PlansWritten)
	}
	if store.batches != 3 {
		t.Errorf("batches = %d, want 3", store.batches)
	}
}

func TestSyncRunAbortsOnBatchFailure(t *testing.T) {
	source := &fakeCatalogSource{}
	for i := 0; i < 6; i++ {
		source.plans = append(source.plans, dataplans.Plan{
			Slug: string(rune('a'+i)) + "-plan", Name: "Plan", Price: d("10"), Currency: "USD",
		})
	}
	store := &fakeCatalogStore{failBatch: 2}

	svc := newTestSyncService(source, store)
	svc.batchSize = 2

	result, err := svc.Run(context.Background(), "scheduled")
	if err == nil {
		t.Fatal("expected an error from the failing batch")
	}
	var transient *utils.TransientError
	if !errors.As(err, &transient) {
		t.Errorf("err = %v, want TransientError", err)
	}
	// The first batch committed before the failure and stays committed.
	if result.PlansWritten != 2 {
		t.Errorf("PlansWritten = %d, want 2", result.PlansWritten)
	}
	if store.logs[0].Status != "failed" {
		t.Errorf("log status = %q, want failed", store.logs[0].Status)
	}
}

func TestSyncRunDisabled(t *testing.T) {
	settings := defaultTestSettings()
	settings.SyncEnabled = false
	svc := NewSyncService(&fakeCatalogSource{}, &fakeCatalogStore{}, staticRates{},
		NewSettingsService(&fakeSettingsStore{settings: settings}, nil))

	if _, err := svc.Run(context.Background(), "scheduled"); err != utils.ErrSyncDisabled {
		t.Errorf("err = %v, want ErrSyncDisabled", err)
	}
}

func TestSyncRunTogglesAdminFields(t *testing.T) {
	// A re-synced plan must not carry enabled/hidden values of its own;
	// the store merge leaves those columns alone. Here we just assert the
	// prepared batch does not set them.
	source := &fakeCatalogSource{
		plans: []dataplans.Plan{{Slug: "th-7d", Name: "TH 7d", Price: d("10"), Currency: "USD"}},
	}
	store := &fakeCatalogStore{}
	if _, err := newTestSyncService(source, store).Run(context.Background(), "manual"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if store.plans[0].Enabled || store.plans[0].Hidden {
		t.Error("sync must not decide admin visibility toggles")
	}
}
