package sqlparse

import "testing"

func TestSingleTableFilterAndOrder(t *testing.T) {
	u, err := Parse("SELECT rental_id FROM rental WHERE return_date > $1 ORDER BY rental_date")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tcu := u.UsageByTable["rental"]
	if tcu == nil {
		t.Fatal("expected usage for rental")
	}
	if len(tcu.FilterRange) != 1 || tcu.FilterRange[0] != "return_date" {
		t.Errorf("expected range filter on return_date, got %v", tcu.FilterRange)
	}
	if len(tcu.FilterEquality) != 0 {
		t.Errorf("expected no equality filters, got %v", tcu.FilterEquality)
	}
	if len(tcu.Orders) != 1 || tcu.Orders[0] != "rental_date" {
		t.Errorf("expected order on rental_date, got %v", tcu.Orders)
	}
}

func TestJoinWithAlias(t *testing.T) {
	u, err := Parse("SELECT o.id FROM orders o JOIN customers c ON o.customer_id = c.id WHERE c.active = true")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.UsageByTable["orders"] == nil || u.UsageByTable["customers"] == nil {
		t.Fatalf("expected both tables present, got %+v", u.UsageByTable)
	}
	if got := u.UsageByTable["orders"].Joins; len(got) != 1 || got[0] != "customer_id" {
		t.Errorf("expected orders.customer_id join, got %v", got)
	}
	if got := u.UsageByTable["customers"].Joins; len(got) != 1 || got[0] != "id" {
		t.Errorf("expected customers.id join, got %v", got)
	}
	if got := u.UsageByTable["customers"].FilterEquality; len(got) != 1 || got[0] != "active" {
		t.Errorf("expected customers.active equality filter, got %v", got)
	}
}

func TestSkipsUnqualifiedColumnWhenMultipleTables(t *testing.T) {
	u, err := Parse("SELECT * FROM orders, customers WHERE status = 'open'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for table, tcu := range u.UsageByTable {
		if len(tcu.FilterEquality) != 0 || len(tcu.FilterRange) != 0 {
			t.Errorf("expected no filters attributed for ambiguous column, table %s got eq=%v range=%v", table, tcu.FilterEquality, tcu.FilterRange)
		}
	}
}

func TestUsingJoinAttributesBothSides(t *testing.T) {
	u, err := Parse("SELECT * FROM orders JOIN customers USING (customer_id)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := u.UsageByTable["orders"].Joins; len(got) != 1 || got[0] != "customer_id" {
		t.Errorf("expected orders.customer_id, got %v", got)
	}
	if got := u.UsageByTable["customers"].Joins; len(got) != 1 || got[0] != "customer_id" {
		t.Errorf("expected customers.customer_id, got %v", got)
	}
}

func TestMultiPredicateClassifiesEqualityAndRange(t *testing.T) {
	u, err := Parse("SELECT id, email, signup_at FROM customers WHERE status = 'active' AND signup_at > $1 AND region IN ('east', 'west')")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tcu := u.UsageByTable["customers"]
	if tcu == nil {
		t.Fatal("expected usage for customers")
	}
	if len(tcu.FilterEquality) != 2 {
		t.Fatalf("expected 2 equality filters (status, region), got %v", tcu.FilterEquality)
	}
	if tcu.FilterEquality[0] != "status" || tcu.FilterEquality[1] != "region" {
		t.Errorf("expected equality filters in encounter order [status region], got %v", tcu.FilterEquality)
	}
	if len(tcu.FilterRange) != 1 || tcu.FilterRange[0] != "signup_at" {
		t.Errorf("expected range filter on signup_at, got %v", tcu.FilterRange)
	}
}

func TestCapturesProjectionColumns(t *testing.T) {
	u, err := Parse("SELECT id, email, signup_at FROM customers WHERE status = 'active'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tcu := u.UsageByTable["customers"]
	if tcu == nil {
		t.Fatal("expected usage for customers")
	}
	want := map[string]bool{"id": true, "email": true, "signup_at": true}
	if len(tcu.Projected) != len(want) {
		t.Fatalf("expected %d projected columns, got %v", len(want), tcu.Projected)
	}
	for _, c := range tcu.Projected {
		if !want[c] {
			t.Errorf("unexpected projected column %q", c)
		}
	}
}

func TestProjectionSkipsFunctionCallsAndStar(t *testing.T) {
	u, err := Parse("SELECT count(*), upper(email) AS e, id FROM customers WHERE status = 'active'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tcu := u.UsageByTable["customers"]
	if tcu == nil {
		t.Fatal("expected usage for customers")
	}
	if len(tcu.Projected) != 1 || tcu.Projected[0] != "id" {
		t.Errorf("expected only id to be captured as a bare projection column, got %v", tcu.Projected)
	}
}

func TestProjectionResolvesQualifiedColumnAcrossJoin(t *testing.T) {
	u, err := Parse("SELECT o.id, c.email FROM orders o JOIN customers c ON o.customer_id = c.id WHERE o.status = 'open'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := u.UsageByTable["orders"].Projected; len(got) != 1 || got[0] != "id" {
		t.Errorf("expected orders.id projected, got %v", got)
	}
	if got := u.UsageByTable["customers"].Projected; len(got) != 1 || got[0] != "email" {
		t.Errorf("expected customers.email projected, got %v", got)
	}
}
