package postgres

import "testing"

func TestCompactSQL(t *testing.T) {
	in := `
		UPDATE feature_usages
		SET route_calculation_count = route_calculation_count + $2
		WHERE user_id = $1
	`
	want := "UPDATE feature_usages SET route_calculation_count = route_calculation_count + $2 WHERE user_id = $1"
	if got := compactSQL(in); got != want {
		t.Errorf("compactSQL = %q, want %q", got, want)
	}
}

func TestValidID(t *testing.T) {
	if !validID("8d1f6f57-0c1e-4a4e-9d55-0c7f3b1d9a01") {
		t.Error("expected uuid to be valid")
	}
	for _, id := range []string{"", "user-1", "8d1f6f57"} {
		if validID(id) {
			t.Errorf("expected %q to be rejected", id)
		}
	}
}
