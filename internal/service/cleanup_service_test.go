package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"pricemaster/internal/apierror"
	"pricemaster/internal/dto"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCleanupSvc(prices *stubPriceRepo) CleanupService {
	return NewCleanupService(NewDuplicateService(prices), prices)
}

func actionFor(t *testing.T, preview []dto.CleanupAction, priceID string) string {
	t.Helper()
	for _, a := range preview {
		if a.PriceID == priceID {
			return a.Action
		}
	}
	t.Fatalf("price %s missing from preview", priceID)
	return ""
}

func TestCleanup_KeepLatestDeletesOlderRecords(t *testing.T) {
	items := newStubItemRepo()
	prices := newStubPriceRepo()
	item := seedItem(items, "CLN-001", "Rotor")
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	oldest := seedDuplicate(prices, item, "2024-01-01", 10, base)
	middle := seedDuplicate(prices, item, "2024-01-01", 20, base.Add(time.Hour))
	latest := seedDuplicate(prices, item, "2024-01-01", 30, base.Add(2*time.Hour))
	svc := buildCleanupSvc(prices)

	resp, err := svc.Cleanup(context.Background(), dto.CleanupRequest{Strategy: dto.StrategyKeepLatest})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.False(t, resp.DryRun)
	assert.Equal(t, 2, resp.DeletedCount)
	assert.Equal(t, dto.ActionKeep, actionFor(t, resp.Preview, latest.ID.String()))
	assert.Equal(t, dto.ActionDelete, actionFor(t, resp.Preview, oldest.ID.String()))
	assert.Equal(t, dto.ActionDelete, actionFor(t, resp.Preview, middle.ID.String()))

	_, survivorRemains := prices.records[latest.ID]
	assert.True(t, survivorRemains)
	assert.Len(t, prices.records, 1)
}

func TestCleanup_KeepOldestDeletesNewerRecords(t *testing.T) {
	items := newStubItemRepo()
	prices := newStubPriceRepo()
	item := seedItem(items, "CLN-002", "Stator")
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	oldest := seedDuplicate(prices, item, "2024-01-01", 10, base)
	newest := seedDuplicate(prices, item, "2024-01-01", 30, base.Add(time.Hour))
	svc := buildCleanupSvc(prices)

	resp, err := svc.Cleanup(context.Background(), dto.CleanupRequest{Strategy: dto.StrategyKeepOldest})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.DeletedCount)
	assert.Equal(t, dto.ActionKeep, actionFor(t, resp.Preview, oldest.ID.String()))
	assert.Equal(t, dto.ActionDelete, actionFor(t, resp.Preview, newest.ID.String()))
	_, survivorRemains := prices.records[oldest.ID]
	assert.True(t, survivorRemains)
}

func TestCleanup_CustomKeepsExactlyTheNamedIDs(t *testing.T) {
	items := newStubItemRepo()
	prices := newStubPriceRepo()
	item := seedItem(items, "CLN-003", "Bearing")
	now := time.Now()
	keepMe := seedDuplicate(prices, item, "2024-01-01", 10, now)
	dropMe := seedDuplicate(prices, item, "2024-01-01", 20, now.Add(time.Minute))
	svc := buildCleanupSvc(prices)

	resp, err := svc.Cleanup(context.Background(), dto.CleanupRequest{
		Strategy:      dto.StrategyCustom,
		CustomKeepIDs: []string{keepMe.ID.String()},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.DeletedCount)
	assert.Equal(t, dto.ActionKeep, actionFor(t, resp.Preview, keepMe.ID.String()))
	assert.Equal(t, dto.ActionDelete, actionFor(t, resp.Preview, dropMe.ID.String()))
}

func TestCleanup_CustomWithEmptyKeepSetRejectedUpFront(t *testing.T) {
	items := newStubItemRepo()
	prices := newStubPriceRepo()
	item := seedItem(items, "CLN-004", "Sprocket")
	now := time.Now()
	seedDuplicate(prices, item, "2024-01-01", 10, now)
	seedDuplicate(prices, item, "2024-01-01", 20, now.Add(time.Minute))
	svc := buildCleanupSvc(prices)

	_, err := svc.Cleanup(context.Background(), dto.CleanupRequest{Strategy: dto.StrategyCustom})

	require.Error(t, err)
	assert.Equal(t, apierror.CodeStrategy, apierror.CodeOf(err))
	assert.Len(t, prices.records, 2, "rejection must happen before any store work")
}

func TestCleanup_CustomRejectsMalformedKeepID(t *testing.T) {
	svc := buildCleanupSvc(newStubPriceRepo())

	_, err := svc.Cleanup(context.Background(), dto.CleanupRequest{
		Strategy:      dto.StrategyCustom,
		CustomKeepIDs: []string{"not-a-uuid"},
	})

	require.Error(t, err)
	assert.Equal(t, apierror.CodeStrategy, apierror.CodeOf(err))
}

func TestCleanup_UnknownStrategyRejected(t *testing.T) {
	svc := buildCleanupSvc(newStubPriceRepo())

	_, err := svc.Cleanup(context.Background(), dto.CleanupRequest{Strategy: "keep_cheapest"})

	require.Error(t, err)
	assert.Equal(t, apierror.CodeStrategy, apierror.CodeOf(err))
}

func TestCleanup_NoDuplicatesIsSuccess(t *testing.T) {
	svc := buildCleanupSvc(newStubPriceRepo())

	resp, err := svc.Cleanup(context.Background(), dto.CleanupRequest{Strategy: dto.StrategyKeepLatest})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 0, resp.DeletedCount)
	assert.Empty(t, resp.Preview)
	assert.Equal(t, "no duplicate groups to clean up", resp.Message)
}

func TestCleanup_DryRunWithoutGroupsEndsPreviewed(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	svc := buildCleanupSvc(newStubPriceRepo())

	resp, err := svc.Cleanup(context.Background(), dto.CleanupRequest{Strategy: dto.StrategyKeepLatest, DryRun: true})

	require.NoError(t, err)
	assert.True(t, resp.DryRun)
	// PREVIEWED is the terminal state of every dry run, groups or not.
	assert.Contains(t, buf.String(), `"state":"PREVIEWED"`)
	assert.NotContains(t, buf.String(), `"state":"COMMITTED"`)
}

func TestCleanup_DryRunMatchesRealRun(t *testing.T) {
	items := newStubItemRepo()
	prices := newStubPriceRepo()
	a := seedItem(items, "CLN-005", "Axle")
	b := seedItem(items, "CLN-006", "Pin")
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	seedDuplicate(prices, a, "2024-01-01", 10, base)
	seedDuplicate(prices, a, "2024-01-01", 11, base.Add(time.Hour))
	seedDuplicate(prices, a, "2024-01-01", 12, base.Add(2*time.Hour))
	seedDuplicate(prices, b, "2024-02-01", 20, base)
	seedDuplicate(prices, b, "2024-02-01", 21, base.Add(time.Hour))
	svc := buildCleanupSvc(prices)

	dry, err := svc.Cleanup(context.Background(), dto.CleanupRequest{Strategy: dto.StrategyKeepLatest, DryRun: true})
	require.NoError(t, err)
	assert.True(t, dry.DryRun)
	assert.Equal(t, 3, dry.DeletedCount)
	assert.Len(t, prices.records, 5, "dry run must not delete anything")

	applied, err := svc.Cleanup(context.Background(), dto.CleanupRequest{Strategy: dto.StrategyKeepLatest})
	require.NoError(t, err)
	assert.False(t, applied.DryRun)
	assert.Equal(t, dry.DeletedCount, applied.DeletedCount)
	assert.Equal(t, dry.Preview, applied.Preview)
	assert.Len(t, prices.records, 2)
}

func TestCleanup_CreationTimestampTieBreaksOnID(t *testing.T) {
	items := newStubItemRepo()
	prices := newStubPriceRepo()
	item := seedItem(items, "CLN-007", "Bushing")
	when := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	first := seedDuplicate(prices, item, "2024-01-01", 10, when)
	second := seedDuplicate(prices, item, "2024-01-01", 20, when)
	svc := buildCleanupSvc(prices)

	resp, err := svc.Cleanup(context.Background(), dto.CleanupRequest{Strategy: dto.StrategyKeepLatest, DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.DeletedCount)
	// Ties resolve on the larger id string, so the pick is stable.
	want := first.ID.String()
	if second.ID.String() > want {
		want = second.ID.String()
	}
	assert.Equal(t, dto.ActionKeep, actionFor(t, resp.Preview, want))
}
