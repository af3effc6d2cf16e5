package storage

import "testing"

func TestVoteLedger(t *testing.T) {
	ledger, err := NewVoteLedger(t.TempDir())
	if err != nil {
		t.Fatalf("NewVoteLedger: %v", err)
	}
	defer ledger.Close()

	if err := ledger.Record("cmp-1", 5, "model-a", "left"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := ledger.Record("cmp-2", 5, "", "tie"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	ids, err := ledger.VotedComparisons()
	if err != nil {
		t.Fatalf("VotedComparisons: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d voted comparisons, want 2", len(ids))
	}

	t.Run("repeat record keeps first verdict", func(t *testing.T) {
		if err := ledger.Record("cmp-1", 5, "model-b", "right"); err != nil {
			t.Fatalf("Record: %v", err)
		}
		records, err := ledger.History()
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		for _, r := range records {
			if r.ComparisonID == "cmp-1" && r.Winner != "model-a" {
				t.Errorf("first verdict overwritten: %+v", r)
			}
		}
	})

	t.Run("history carries outcomes", func(t *testing.T) {
		records, err := ledger.History()
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("got %d records, want 2", len(records))
		}
		byID := map[string]VoteRecord{}
		for _, r := range records {
			byID[r.ComparisonID] = r
		}
		if byID["cmp-2"].Outcome != "tie" || byID["cmp-2"].Winner != "" {
			t.Errorf("tie record wrong: %+v", byID["cmp-2"])
		}
	})
}
