package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_EmptyStoreIsSuccess(t *testing.T) {
	svc := NewDuplicateService(newStubPriceRepo())

	resp, err := svc.Scan(context.Background())

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 0, resp.TotalDuplicates)
	assert.Empty(t, resp.DuplicateGroups)
	assert.Equal(t, 0, resp.Summary.TotalRecords)
	assert.Equal(t, "no duplicate price records found", resp.Message)
}

func TestScan_UniqueRecordsAreNotDuplicates(t *testing.T) {
	items := newStubItemRepo()
	prices := newStubPriceRepo()
	item := seedItem(items, "DUP-001", "Panel")
	now := time.Now()
	seedPrice(prices, item, "2024-01-01", 10, now)
	seedPrice(prices, item, "2024-01-02", 11, now)
	seedPrice(prices, item, "2024-01-03", 12, now)
	svc := NewDuplicateService(prices)

	resp, err := svc.Scan(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, resp.TotalDuplicates)
}

func TestScan_GroupsByItemAndDate(t *testing.T) {
	items := newStubItemRepo()
	prices := newStubPriceRepo()
	a := seedItem(items, "DUP-A", "Frame")
	b := seedItem(items, "DUP-B", "Hinge")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Item A carries three copies on one date, item B two on another;
	// a singleton on a third date must stay out of the report.
	seedDuplicate(prices, a, "2024-01-01", 10, base)
	seedDuplicate(prices, a, "2024-01-01", 11, base.Add(time.Hour))
	seedDuplicate(prices, a, "2024-01-01", 12, base.Add(2*time.Hour))
	seedDuplicate(prices, b, "2024-02-01", 20, base)
	seedDuplicate(prices, b, "2024-02-01", 21, base.Add(time.Hour))
	seedPrice(prices, b, "2024-02-15", 22, base)

	svc := NewDuplicateService(prices)
	resp, err := svc.Scan(context.Background())

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.TotalDuplicates)
	require.Len(t, resp.DuplicateGroups, 2)

	assert.Equal(t, 3, resp.Summary.ByItem[a.ID.String()])
	assert.Equal(t, 2, resp.Summary.ByItem[b.ID.String()])
	assert.Equal(t, 3, resp.Summary.ByDate["2024-01-01"])
	assert.Equal(t, 2, resp.Summary.ByDate["2024-02-01"])
	assert.Equal(t, 5, resp.Summary.TotalRecords)

	for _, g := range resp.DuplicateGroups {
		assert.GreaterOrEqual(t, len(g.Records), 2)
	}
}

func TestScan_RecordsOrderedOldestFirst(t *testing.T) {
	items := newStubItemRepo()
	prices := newStubPriceRepo()
	item := seedItem(items, "DUP-ORD", "Bracket")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	newest := seedDuplicate(prices, item, "2024-01-01", 30, base.Add(2*time.Hour))
	oldest := seedDuplicate(prices, item, "2024-01-01", 10, base)
	middle := seedDuplicate(prices, item, "2024-01-01", 20, base.Add(time.Hour))

	svc := NewDuplicateService(prices)
	resp, err := svc.Scan(context.Background())

	require.NoError(t, err)
	require.Len(t, resp.DuplicateGroups, 1)
	records := resp.DuplicateGroups[0].Records
	require.Len(t, records, 3)
	assert.Equal(t, oldest.ID.String(), records[0].PriceID)
	assert.Equal(t, middle.ID.String(), records[1].PriceID)
	assert.Equal(t, newest.ID.String(), records[2].PriceID)
}

func TestCollectGroups_SameDateDifferentItemsAreSeparate(t *testing.T) {
	items := newStubItemRepo()
	prices := newStubPriceRepo()
	a := seedItem(items, "DUP-X", "Rail")
	b := seedItem(items, "DUP-Y", "Clamp")
	now := time.Now()

	seedDuplicate(prices, a, "2024-05-01", 10, now)
	seedDuplicate(prices, a, "2024-05-01", 11, now.Add(time.Minute))
	seedDuplicate(prices, b, "2024-05-01", 20, now)
	seedDuplicate(prices, b, "2024-05-01", 21, now.Add(time.Minute))

	svc := NewDuplicateService(prices)
	groups, err := svc.CollectGroups(context.Background())

	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.NotEqual(t, groups[0].ItemID, groups[1].ItemID)
}
