package core

import "testing"

func TestFilterTransactions(t *testing.T) {
	food, rent := int64(1), int64(2)
	txs := []Transaction{
		{ID: 1, Description: "Weekly Groceries", Type: Expense, Category: &food},
		{ID: 2, Description: "Salary", Type: Income},
		{ID: 3, Description: "Rent March", Type: Expense, Category: &rent},
		{ID: 4, Description: "grocery refund", Type: Income, Category: &food},
	}

	ids := func(in []Transaction) []int64 {
		out := []int64{}
		for _, tx := range in {
			out = append(out, tx.ID)
		}
		return out
	}

	cases := []struct {
		name string
		f    TransactionFilter
		want []int64
	}{
		{"zero filter", TransactionFilter{}, []int64{1, 2, 3, 4}},
		{"all type", TransactionFilter{Type: All}, []int64{1, 2, 3, 4}},
		{"search is case-insensitive", TransactionFilter{Search: "GROCER"}, []int64{1, 4}},
		{"type", TransactionFilter{Type: "income"}, []int64{2, 4}},
		{"category", TransactionFilter{CategoryID: &food}, []int64{1, 4}},
		{"combined", TransactionFilter{Search: "groc", Type: "expense", CategoryID: &food}, []int64{1}},
		{"no match", TransactionFilter{Search: "zzz"}, []int64{}},
	}
	for _, tc := range cases {
		got := ids(FilterTransactions(txs, tc.f))
		if len(got) != len(tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
			}
		}
	}
}

func TestFilterCategories(t *testing.T) {
	cats := []Category{{ID: 1, Type: Expense}, {ID: 2, Type: Income}, {ID: 3, Type: Expense}}
	if got := FilterCategories(cats, "expense"); len(got) != 2 || got[1].ID != 3 {
		t.Fatalf("unexpected expense filter result: %+v", got)
	}
	if got := FilterCategories(cats, "income"); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("unexpected income filter result: %+v", got)
	}
	for _, typ := range []string{"all", "", "weird"} {
		if got := FilterCategories(cats, typ); len(got) != 3 {
			t.Fatalf("%q: expected all categories, got %d", typ, len(got))
		}
	}
}
