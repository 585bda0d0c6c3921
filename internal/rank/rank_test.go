package rank

import (
	"reflect"
	"testing"

	"github.com/henri123lemoine/twig/internal/git"
	"github.com/henri123lemoine/twig/internal/view"
)

var names = []string{"dev", "feature/foo", "main"}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		want    any
		wantErr bool
	}{
		{"", Fuzzy{}, false},
		{"fuzzy", Fuzzy{}, false},
		{" Fold ", Fold{}, false},
		{"regex", nil, true},
	}

	for _, tt := range tests {
		r, err := New(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("New(%q) expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("New(%q) error: %v", tt.name, err)
			continue
		}
		if reflect.TypeOf(r) != reflect.TypeOf(tt.want) {
			t.Errorf("New(%q) = %T, want %T", tt.name, r, tt.want)
		}
	}
}

func TestFuzzyRank(t *testing.T) {
	tests := []struct {
		query string
		want  []int
	}{
		{"", nil},
		{"fea", []int{1}},
		{"mn", []int{2}},
		{"xyz", []int{}},
	}

	for _, tt := range tests {
		got := Fuzzy{}.Rank(tt.query, names)
		if len(got) != len(tt.want) {
			t.Errorf("Rank(%q) = %v, want %v", tt.query, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Rank(%q) = %v, want %v", tt.query, got, tt.want)
				break
			}
		}
	}
}

func TestFoldRank(t *testing.T) {
	got := Fold{}.Rank("FEATURE", []string{"dev", "feature/foo", "main", "Feature/Bar"})
	if len(got) != 2 {
		t.Fatalf("Rank(FEATURE) = %v, want both feature branches", got)
	}

	// Closest name first; ties keep listing order.
	got = Fold{}.Rank("feat", []string{"feature-long-name", "feat", "team/feat"})
	if want := []int{1, 2, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("Rank(feat) = %v, want %v", got, want)
	}

	if got := (Fold{}).Rank("", names); got != nil {
		t.Errorf("Rank(\"\") = %v, want nil", got)
	}
}

func TestRankIndicesAreValid(t *testing.T) {
	for _, r := range []interface {
		Rank(string, []string) []int
	}{Fuzzy{}, Fold{}} {
		for _, q := range []string{"a", "e", "/", "o"} {
			seen := map[int]bool{}
			for _, idx := range r.Rank(q, names) {
				if idx < 0 || idx >= len(names) || seen[idx] {
					t.Errorf("%T.Rank(%q) returned bad index %d", r, q, idx)
				}
				seen[idx] = true
			}
		}
	}
}

func TestTypeToFilter(t *testing.T) {
	candidates := []string{"main", "feature/foo", "release"}

	for _, r := range []view.Ranker{Fuzzy{}, Fold{}} {
		if got, want := r.Rank("fea", candidates), []int{1}; !reflect.DeepEqual(got, want) {
			t.Errorf("%T.Rank(fea) = %v, want %v", r, got, want)
		}

		tab := view.NewTab[git.LocalBranch](r)
		records := make([]git.LocalBranch, len(candidates))
		for i, name := range candidates {
			records[i] = git.LocalBranch{Name: name, IsCurrent: name == "main"}
		}
		tab.Refresh(records, func(b git.LocalBranch) bool { return b.IsCurrent })
		for _, c := range "fea" {
			tab.TypeRune(c)
		}

		if tab.Len() != 1 || tab.Active().Selected != 0 {
			t.Errorf("%T: filtered len %d, selected %d; want 1 record selected at 0", r, tab.Len(), tab.Active().Selected)
			continue
		}
		if b, ok := tab.Selection(); !ok || b.Name != "feature/foo" {
			t.Errorf("%T: selection = %q, want feature/foo", r, b.Name)
		}
	}
}
