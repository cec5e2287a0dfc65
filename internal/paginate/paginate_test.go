package paginate

import (
	"reflect"
	"testing"
)

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name      string
		items     []int
		page      int
		size      int
		wantItems []int
		wantPage  int
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"first page", items, 1, 3, []int{1, 2, 3}, 1, 3, true, false},
		{"middle page", items, 2, 3, []int{4, 5, 6}, 2, 3, true, true},
		{"last partial page", items, 3, 3, []int{7}, 3, 3, false, true},
		{"past the end clamps", items, 9, 3, []int{7}, 3, 3, false, true},
		{"zero page clamps", items, 0, 3, []int{1, 2, 3}, 1, 3, true, false},
		{"default size", items, 1, 0, items, 1, 1, false, false},
		{"empty listing", nil, 1, 5, []int{}, 1, 1, false, false},
		{"exact fit", items[:6], 2, 3, []int{4, 5, 6}, 2, 2, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Page(tt.items, tt.page, tt.size)

			if len(got.Items) != len(tt.wantItems) || (len(tt.wantItems) > 0 && !reflect.DeepEqual(got.Items, tt.wantItems)) {
				t.Errorf("Items = %v, want %v", got.Items, tt.wantItems)
			}
			if got.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", got.Page, tt.wantPage)
			}
			if got.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantPages)
			}
			if got.Total != len(tt.items) {
				t.Errorf("Total = %d, want %d", got.Total, len(tt.items))
			}
			if got.HasNext() != tt.wantNext {
				t.Errorf("HasNext() = %v, want %v", got.HasNext(), tt.wantNext)
			}
			if got.HasPrev() != tt.wantPrev {
				t.Errorf("HasPrev() = %v, want %v", got.HasPrev(), tt.wantPrev)
			}
		})
	}
}
