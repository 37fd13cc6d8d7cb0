package model

import "testing"

func TestStatusCycle(t *testing.T) {
	cases := []struct {
		from TodoStatus
		want TodoStatus
	}{
		{StatusNotStarted, StatusInProgress},
		{StatusInProgress, StatusCompleted},
		{StatusCompleted, StatusNotStarted},
		{TodoStatus("garbage"), StatusInProgress},
	}

	for _, tc := range cases {
		if got := tc.from.Next(); got != tc.want {
			t.Errorf("Next(%q) = %q, want %q", tc.from, got, tc.want)
		}
	}
}

func TestListEditable(t *testing.T) {
	view := PermissionView
	update := PermissionUpdate

	cases := []struct {
		name string
		list List
		want bool
	}{
		{"owned", List{}, true},
		{"shared update", List{PermissionLevel: &update}, true},
		{"shared view", List{PermissionLevel: &view}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.list.Editable(); got != tc.want {
				t.Errorf("Editable = %v, want %v", got, tc.want)
			}
		})
	}
}
