package pageref

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		page    string
		number  int
		suffix  string
		wantErr bool
	}{
		{"2a", 2, "a", false},
		{"2b", 2, "b", false},
		{"10a", 10, "a", false},
		{"176b", 176, "b", false},
		{"7", 7, "", false},
		{"a2", 0, "", true},
		{"", 0, "", true},
	}

	for _, tt := range tests {
		number, suffix, err := Parse(tt.page)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tt.page)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", tt.page, err)
			continue
		}
		if number != tt.number || suffix != tt.suffix {
			t.Errorf("Parse(%q) = (%d, %q), want (%d, %q)", tt.page, number, suffix, tt.number, tt.suffix)
		}
	}
}

func TestCompare_FolioOrder(t *testing.T) {
	// Lexicographic order would put "10a" before "2a"; folio order must not.
	ordered := []string{"2a", "2b", "3a", "9b", "10a", "10b", "100a"}
	for i := 0; i < len(ordered)-1; i++ {
		if Compare(ordered[i], ordered[i+1]) >= 0 {
			t.Errorf("expected %q < %q", ordered[i], ordered[i+1])
		}
		if Compare(ordered[i+1], ordered[i]) <= 0 {
			t.Errorf("expected %q > %q", ordered[i+1], ordered[i])
		}
	}
	if Compare("2a", "2a") != 0 {
		t.Error("expected equal references to compare as 0")
	}
}

func TestCompare_UnparseableSortsLast(t *testing.T) {
	if Compare("bogus", "2a") != 1 {
		t.Error("expected unparseable reference to sort after a valid one")
	}
	if Compare("2a", "bogus") != -1 {
		t.Error("expected valid reference to sort before an unparseable one")
	}
	if Compare("bogus", "junk") != 0 {
		t.Error("expected two unparseable references to compare as equal")
	}
}

func TestSort(t *testing.T) {
	pages := []string{"10a", "2b", "100b", "2a", "10b"}
	Sort(pages)

	want := []string{"2a", "2b", "10a", "10b", "100b"}
	if !reflect.DeepEqual(pages, want) {
		t.Errorf("Sort = %v, want %v", pages, want)
	}
}

func TestValid(t *testing.T) {
	valid := []string{"2a", "2b", "176a"}
	for _, page := range valid {
		if !Valid(page) {
			t.Errorf("Valid(%q) = false, want true", page)
		}
	}

	invalid := []string{"", "2c", "2", "a2", "two-a"}
	for _, page := range invalid {
		if Valid(page) {
			t.Errorf("Valid(%q) = true, want false", page)
		}
	}
}
