package service

import (
	"errors"
	"testing"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/cache"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/models"
)

type flakyRemover struct {
	fail    map[string]bool
	removed []string
}

func (r *flakyRemover) RemoveLine(productID, unitLabel string) error {
	if r.fail[productID] {
		return errors.New("remove failed")
	}
	r.removed = append(r.removed, productID)
	return nil
}

func TestSelectionToggle(t *testing.T) {
	sel := NewSelection()
	key := models.NewLineKey("A", "1kg")
	if !sel.Toggle(key) || !sel.IsSelected(key) {
		t.Fatalf("first toggle should select")
	}
	if sel.Toggle(key) || sel.IsSelected(key) {
		t.Fatalf("second toggle should deselect")
	}
	if sel.Len() != 0 {
		t.Fatalf("expected empty selection, got %d", sel.Len())
	}
}

func TestSelectionDeselect(t *testing.T) {
	sel := NewSelection()
	a := models.NewLineKey("A", "1kg")
	b := models.NewLineKey("B", "1kg")
	sel.SelectAll([]models.LineKey{a, b})

	sel.Deselect(a)
	if sel.IsSelected(a) || !sel.IsSelected(b) || sel.Len() != 1 {
		t.Fatalf("deselect should only drop the given line, keys=%v", sel.Keys())
	}
	sel.Deselect(a)
	if sel.Len() != 1 {
		t.Fatalf("deselecting an unselected line should be a no-op")
	}
}

func TestSelectionToggleAll(t *testing.T) {
	sel := NewSelection()
	items := []models.CartItem{
		{Product: testProduct("A", 1, "1kg", 1), Quantity: 1},
		{Product: testProduct("B", 1, "1kg", 1), Quantity: 1},
	}
	if sel.AllSelected(items) {
		t.Fatalf("nothing selected yet")
	}
	sel.Toggle(items[0].Key())
	if !sel.ToggleAll(items) || !sel.AllSelected(items) {
		t.Fatalf("toggle all with partial selection should select everything")
	}
	if sel.ToggleAll(items) || sel.Len() != 0 {
		t.Fatalf("toggle all with full selection should clear")
	}
	if sel.AllSelected(nil) {
		t.Fatalf("empty cart is never all selected")
	}
}

func TestSelectionKeysSorted(t *testing.T) {
	sel := NewSelection()
	sel.SelectAll([]models.LineKey{models.NewLineKey("b", "x"), models.NewLineKey("a", "x")})
	keys := sel.Keys()
	if len(keys) != 2 || keys[0].ProductID != "a" || keys[1].ProductID != "b" {
		t.Fatalf("unexpected keys: %+v", keys)
	}
}

func TestConfirmBatchDeleteRemovesSelected(t *testing.T) {
	store := NewCartStore(cache.NewMemoryStore())
	_ = store.AddLine(testProduct("A", 1, "250g", 0.25), 1)
	_ = store.AddLine(testProduct("A", 1, "1kg", 1), 1)
	_ = store.AddLine(testProduct("B_1", 1, "1kg", 1), 1)

	sel := NewSelection()
	sel.Toggle(models.NewLineKey("A", "250g"))
	sel.Toggle(models.NewLineKey("B_1", "1kg"))

	result := sel.ConfirmBatchDelete(store)
	if len(result.Removed) != 2 || len(result.Failed) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	items := store.CurrentItems()
	if len(items) != 1 || items[0].Key() != models.NewLineKey("A", "1kg") {
		t.Fatalf("only unselected line should remain, got %+v", items)
	}
	if sel.Len() != 0 {
		t.Fatalf("selection should be cleared")
	}
}

func TestConfirmBatchDeletePartialFailure(t *testing.T) {
	sel := NewSelection()
	sel.SelectAll([]models.LineKey{
		models.NewLineKey("A", "1kg"),
		models.NewLineKey("B", "1kg"),
		models.NewLineKey("C", "1kg"),
	})
	remover := &flakyRemover{fail: map[string]bool{"B": true}}

	result := sel.ConfirmBatchDelete(remover)
	if len(remover.removed) != 2 {
		t.Fatalf("failure must not stop the batch, removed %v", remover.removed)
	}
	if len(result.Failed) != 1 || result.Failed[0].Key.ProductID != "B" {
		t.Fatalf("expected B to fail, got %+v", result.Failed)
	}
	if sel.Len() != 0 {
		t.Fatalf("selection should be cleared even after a failure")
	}
}
