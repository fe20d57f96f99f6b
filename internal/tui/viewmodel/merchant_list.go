package viewmodel

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Veraticus/merchant-ops/internal/model"
)

const (
	// PageSize is how many rows each window reset or load-more provides.
	PageSize = 10
	// InitialWindow is how many rows show before the first derivation.
	InitialWindow = 2
)

// SortField represents the field to sort by.
type SortField int

const (
	// SortNone keeps the filtered order.
	SortNone SortField = iota
	// SortByMonthlyVolume sorts merchants by monthly volume.
	SortByMonthlyVolume
	// SortByChargebackRatio sorts merchants by chargeback ratio.
	SortByChargebackRatio
)

// SortOrder represents sort direction.
type SortOrder int

const (
	// SortAscending sorts in ascending order.
	SortAscending SortOrder = iota
	// SortDescending sorts in descending order.
	SortDescending
)

// ListQuery holds every input of the merchant list derivation.
// Empty status or risk sets mean no filtering on that attribute.
type ListQuery struct {
	Search     string
	Statuses   []model.MerchantStatus
	RiskLevels []model.RiskLevel
	SortBy     SortField
	SortOrder  SortOrder
}

// HasFilter returns true if any search or filter narrows the list.
func (q ListQuery) HasFilter() bool {
	return strings.TrimSpace(q.Search) != "" || len(q.Statuses) > 0 || len(q.RiskLevels) > 0
}

// Matches reports whether m passes the search, status and risk filters.
func (q ListQuery) Matches(m model.Merchant) bool {
	if needle := strings.ToLower(strings.TrimSpace(q.Search)); needle != "" {
		if !strings.Contains(strings.ToLower(m.Name), needle) {
			return false
		}
	}
	if len(q.Statuses) > 0 && !slices.Contains(q.Statuses, m.Status) {
		return false
	}
	if len(q.RiskLevels) > 0 && !slices.Contains(q.RiskLevels, m.RiskLevel) {
		return false
	}
	return true
}

// Derive filters and sorts all without modifying it. Merchants with equal
// sort keys keep their relative input order.
func Derive(all []model.Merchant, q ListQuery) []model.Merchant {
	result := make([]model.Merchant, 0, len(all))
	for _, m := range all {
		if q.Matches(m) {
			result = append(result, m)
		}
	}

	key := sortKey(q.SortBy)
	if key == nil {
		return result
	}

	slices.SortStableFunc(result, func(a, b model.Merchant) int {
		c := cmp.Compare(key(a), key(b))
		if q.SortOrder == SortDescending {
			return -c
		}
		return c
	})
	return result
}

func sortKey(field SortField) func(model.Merchant) float64 {
	switch field {
	case SortByMonthlyVolume:
		return func(m model.Merchant) float64 { return m.MonthlyVolume }
	case SortByChargebackRatio:
		return func(m model.Merchant) float64 { return m.ChargebackRatio }
	default:
		return nil
	}
}

// MerchantListView is the merchant table's state: the query, the derived
// list and the displayed window over it.
type MerchantListView struct {
	query     ListQuery
	source    []model.Merchant
	derived   []model.Merchant
	displayed []model.Merchant
	Cursor    int
	hasMore   bool
	loading   bool
}

// NewMerchantListView creates a list over source showing the first
// InitialWindow merchants until the first Refresh.
func NewMerchantListView(source []model.Merchant) *MerchantListView {
	v := &MerchantListView{source: source}
	v.displayed = slices.Clone(source[:min(InitialWindow, len(source))])
	v.hasMore = len(source) > PageSize
	return v
}

// Query returns the current derivation inputs.
func (v *MerchantListView) Query() ListQuery {
	return v.query
}

// Displayed returns the rows currently shown.
func (v *MerchantListView) Displayed() []model.Merchant {
	return v.displayed
}

// Derived returns the full filtered and sorted list.
func (v *MerchantListView) Derived() []model.Merchant {
	return v.derived
}

// TotalCount returns the number of merchants matching the query.
func (v *MerchantListView) TotalCount() int {
	return len(v.derived)
}

// HasMore returns true if another page can be loaded.
func (v *MerchantListView) HasMore() bool {
	return v.hasMore
}

// Loading returns true while a load-more is in flight.
func (v *MerchantListView) Loading() bool {
	return v.loading
}

// IsEmpty returns true if no rows are displayed.
func (v *MerchantListView) IsEmpty() bool {
	return len(v.displayed) == 0
}

// HasFilter returns true if any filter is active.
func (v *MerchantListView) HasFilter() bool {
	return v.query.HasFilter()
}

// Selected returns the merchant under the cursor.
func (v *MerchantListView) Selected() (model.Merchant, bool) {
	if v.Cursor < 0 || v.Cursor >= len(v.displayed) {
		return model.Merchant{}, false
	}
	return v.displayed[v.Cursor], true
}

// Refresh re-derives the list and resets the window to the first page.
func (v *MerchantListView) Refresh() {
	v.derived = Derive(v.source, v.query)
	if len(v.derived) == 0 {
		v.displayed = nil
		v.hasMore = false
	} else {
		v.displayed = slices.Clone(v.derived[:min(PageSize, len(v.derived))])
		v.hasMore = len(v.derived) > len(v.displayed)
	}
	v.Cursor = min(v.Cursor, max(len(v.displayed)-1, 0))
}

// SetSource replaces the underlying collection, typically after a
// repository mutation.
func (v *MerchantListView) SetSource(all []model.Merchant) {
	v.source = all
	v.Refresh()
}

// SetQuery replaces every derivation input at once.
func (v *MerchantListView) SetQuery(q ListQuery) {
	v.query = q
	v.Refresh()
}

// SetSearch updates the name search.
func (v *MerchantListView) SetSearch(search string) {
	v.query.Search = search
	v.Refresh()
}

// ToggleStatus adds or removes status from the status filter.
func (v *MerchantListView) ToggleStatus(status model.MerchantStatus) {
	v.query.Statuses = toggle(v.query.Statuses, status)
	v.Refresh()
}

// ToggleRisk adds or removes risk from the risk filter.
func (v *MerchantListView) ToggleRisk(risk model.RiskLevel) {
	v.query.RiskLevels = toggle(v.query.RiskLevels, risk)
	v.Refresh()
}

// ToggleSort sorts by field. Selecting the active field flips the direction;
// a new field starts ascending.
func (v *MerchantListView) ToggleSort(field SortField) {
	if field == SortNone {
		return
	}
	if v.query.SortBy == field {
		if v.query.SortOrder == SortAscending {
			v.query.SortOrder = SortDescending
		} else {
			v.query.SortOrder = SortAscending
		}
	} else {
		v.query.SortBy = field
		v.query.SortOrder = SortAscending
	}
	v.Refresh()
}

// ClearFilters drops search, filters and sort.
func (v *MerchantListView) ClearFilters() {
	v.query = ListQuery{}
	v.Refresh()
}

// BeginLoadMore marks a load-more as in flight. It returns false, and does
// nothing, if one is already pending or nothing remains to load.
func (v *MerchantListView) BeginLoadMore() bool {
	if v.loading || !v.hasMore {
		return false
	}
	v.loading = true
	return true
}

// CompleteLoadMore appends the next page and returns how many rows were
// added. Bounds come from the current derived list, so a reset that
// happened while the load was pending is respected.
func (v *MerchantListView) CompleteLoadMore() int {
	if !v.loading {
		return 0
	}
	v.loading = false

	start := len(v.displayed)
	if start >= len(v.derived) {
		v.hasMore = false
		return 0
	}
	end := min(start+PageSize, len(v.derived))
	v.displayed = append(v.displayed, v.derived[start:end]...)
	v.hasMore = end < len(v.derived)
	return end - start
}

// CancelLoadMore abandons a pending load-more without touching the window.
func (v *MerchantListView) CancelLoadMore() {
	v.loading = false
}

// MoveCursor moves the cursor by delta, clamped to the displayed rows.
func (v *MerchantListView) MoveCursor(delta int) {
	v.Cursor = max(0, min(v.Cursor+delta, len(v.displayed)-1))
}

// NearBottom reports whether the cursor is within threshold rows of the end
// of the displayed window.
func (v *MerchantListView) NearBottom(threshold int) bool {
	return len(v.displayed) > 0 && v.Cursor >= len(v.displayed)-1-threshold
}

func toggle[T comparable](set []T, item T) []T {
	if i := slices.Index(set, item); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), item)
}
