package orders

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/markberon/sari-store-backend/pkg/enums"
)

func entry(number string, createdAt time.Time, status enums.OrderStatus) Summary {
	return Summary{
		OrderNumber: number,
		Status:      status,
		Total:       decimal.NewFromInt(100),
		CreatedAt:   createdAt,
	}
}

func TestMergeHistoriesRemoteWinsOnConflict(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	local := []Summary{entry("SS-250615-AAAA", at, enums.OrderStatusPending)}
	remote := []Summary{entry("SS-250615-AAAA", at, enums.OrderStatusDelivered)}

	merged := MergeHistories(local, remote)
	if len(merged) != 1 {
		t.Fatalf("expected one entry after dedupe, got %d", len(merged))
	}
	if merged[0].Status != enums.OrderStatusDelivered {
		t.Fatalf("expected remote status to win, got %s", merged[0].Status)
	}
}

func TestMergeHistoriesKeepsLocalOnlyOrders(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	local := []Summary{
		entry("SS-250614-LLLL", base.Add(-24*time.Hour), enums.OrderStatusPending),
	}
	remote := []Summary{
		entry("SS-250615-RRRR", base, enums.OrderStatusConfirmed),
	}

	merged := MergeHistories(local, remote)
	if len(merged) != 2 {
		t.Fatalf("expected both entries kept, got %d", len(merged))
	}
}

func TestMergeHistoriesSortsNewestFirst(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	local := []Summary{
		entry("SS-250613-AAAA", base.Add(-48*time.Hour), enums.OrderStatusDelivered),
		entry("SS-250615-CCCC", base, enums.OrderStatusPending),
	}
	remote := []Summary{
		entry("SS-250614-BBBB", base.Add(-24*time.Hour), enums.OrderStatusConfirmed),
	}

	merged := MergeHistories(local, remote)
	want := []string{"SS-250615-CCCC", "SS-250614-BBBB", "SS-250613-AAAA"}
	for i, number := range want {
		if merged[i].OrderNumber != number {
			t.Fatalf("position %d: expected %s, got %s", i, number, merged[i].OrderNumber)
		}
	}
}

func TestMergeHistoriesTieBreaksByOrderNumber(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	merged := MergeHistories(nil, []Summary{
		entry("SS-250615-AAAA", at, enums.OrderStatusPending),
		entry("SS-250615-ZZZZ", at, enums.OrderStatusPending),
	})
	if merged[0].OrderNumber != "SS-250615-ZZZZ" {
		t.Fatalf("expected lexically greater number first on tie, got %s", merged[0].OrderNumber)
	}
}

func TestMergeHistoriesDropsBlankNumbers(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	merged := MergeHistories(
		[]Summary{entry("", at, enums.OrderStatusPending)},
		[]Summary{entry("SS-250615-AAAA", at, enums.OrderStatusPending)},
	)
	if len(merged) != 1 {
		t.Fatalf("expected blank order numbers dropped, got %d entries", len(merged))
	}
}

func TestMergeHistoriesEmptyInputs(t *testing.T) {
	t.Parallel()

	if merged := MergeHistories(nil, nil); len(merged) != 0 {
		t.Fatalf("expected empty merge, got %d", len(merged))
	}
}

func TestMergeHistoriesDeduplicatesWithinRemote(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	merged := MergeHistories(nil, []Summary{
		entry("SS-250615-AAAA", at, enums.OrderStatusPending),
		entry("SS-250615-AAAA", at, enums.OrderStatusDelivered),
	})
	if len(merged) != 1 {
		t.Fatalf("expected duplicate within remote collapsed, got %d", len(merged))
	}
	if merged[0].Status != enums.OrderStatusPending {
		t.Fatalf("expected first remote occurrence kept, got %s", merged[0].Status)
	}
}
