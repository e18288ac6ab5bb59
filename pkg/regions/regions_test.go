package regions

import (
	"errors"
	"testing"
)

func TestCatalogOrder(t *testing.T) {
	want := []Key{Cervical, Thoracic, Lumbar, Sacral}
	got := Keys()
	if len(got) != len(want) {
		t.Fatalf("got %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		key   Key
		count string
	}{
		{Cervical, "7 vertebrae"},
		{Thoracic, "12 vertebrae"},
		{Lumbar, "5 vertebrae"},
		{Sacral, "5 fused + 4 coccygeal"},
	}

	for _, tc := range tests {
		t.Run(string(tc.key), func(t *testing.T) {
			r, ok := Lookup(tc.key)
			if !ok {
				t.Fatalf("Lookup(%q) failed", tc.key)
			}
			if r.Count != tc.count {
				t.Errorf("Count = %q, want %q", r.Count, tc.count)
			}
			if r.Name == "" || r.Description == "" || r.Conditions == "" {
				t.Error("region metadata should be populated")
			}
			if r.Color.A != 0xff {
				t.Error("highlight color should be opaque")
			}
		})
	}

	if _, ok := Lookup("coccygeal"); ok {
		t.Error("Lookup should fail for unknown keys")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "changed"
	if MustLookup(Cervical).Name == "changed" {
		t.Error("All() must not expose the catalog")
	}
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("  Lumbar ")
	if err != nil || k != Lumbar {
		t.Errorf("ParseKey = %q, %v", k, err)
	}

	_, err = ParseKey("pelvis")
	if !errors.Is(err, ErrUnknownRegion) {
		t.Errorf("err = %v, want ErrUnknownRegion", err)
	}
}

func TestDistinctColors(t *testing.T) {
	seen := map[[3]uint8]Key{}
	for _, r := range All() {
		c := [3]uint8{r.Color.R, r.Color.G, r.Color.B}
		if other, dup := seen[c]; dup {
			t.Errorf("%s and %s share a highlight color", r.Key, other)
		}
		seen[c] = r.Key
	}
}
