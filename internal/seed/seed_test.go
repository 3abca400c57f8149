package seed

import "testing"

func TestCategoriesParseEmbeddedTaxonomy(t *testing.T) {
	categories, err := Categories()
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	if len(categories) != 7 {
		t.Fatalf("expected 7 built-in categories, got %d", len(categories))
	}
	if categories[0].Name != "Formation" {
		t.Fatalf("expected Formation first, got %s", categories[0].Name)
	}
	for _, category := range categories {
		if category.Description == "" {
			t.Fatalf("category %s has no description", category.Name)
		}
		if len(category.Keywords) == 0 {
			t.Fatalf("category %s has no keywords", category.Name)
		}
	}
}

func TestCategoryNamesMatchOrder(t *testing.T) {
	names, err := CategoryNames()
	if err != nil {
		t.Fatalf("CategoryNames() error = %v", err)
	}
	want := []string{"Formation", "Governance", "Directors & Officers", "Cap Table", "Employees", "Intellectual Property", "Compliance"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("names[%d] = %s, want %s", i, names[i], name)
		}
	}
}
