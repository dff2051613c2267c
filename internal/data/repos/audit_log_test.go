package repos

import "testing"

func TestClampAuditPage(t *testing.T) {
	cases := []struct {
		name     string
		page     int
		size     int
		wantPage int
		wantSize int
	}{
		{"defaults", 0, 0, 1, 50},
		{"negative page", -3, 0, 1, 50},
		{"size below floor", 1, 5, 1, 10},
		{"size above ceiling", 2, 10000, 2, 500},
		{"in range untouched", 4, 100, 4, 100},
		{"floor exactly", 1, 10, 1, 10},
		{"ceiling exactly", 1, 500, 1, 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, size := ClampAuditPage(tc.page, tc.size)
			if page != tc.wantPage || size != tc.wantSize {
				t.Fatalf("ClampAuditPage(%d, %d): expected (%d, %d), got (%d, %d)",
					tc.page, tc.size, tc.wantPage, tc.wantSize, page, size)
			}
		})
	}
}
