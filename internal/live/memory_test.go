package live

import "testing"

func TestMemoryBusScopedDelivery(t *testing.T) {
	bus := NewMemoryBus()

	var tableWide, oneContract, otherContract, otherTable int
	cancels := []CancelFunc{
		bus.Subscribe(Scope{Table: TableContracts}, func(Event) { tableWide++ }),
		bus.Subscribe(Scope{Table: TableContracts, ContractID: "c1"}, func(Event) { oneContract++ }),
		bus.Subscribe(Scope{Table: TableContracts, ContractID: "c2"}, func(Event) { otherContract++ }),
		bus.Subscribe(Scope{Table: TableNotes, ContractID: "c1"}, func(Event) { otherTable++ }),
	}
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
	}()

	bus.Publish(Event{Table: TableContracts, ContractID: "c1", Op: OpUpdate})

	if tableWide != 1 {
		t.Errorf("table-wide subscriber: got %d events, want 1", tableWide)
	}
	if oneContract != 1 {
		t.Errorf("c1 subscriber: got %d events, want 1", oneContract)
	}
	if otherContract != 0 {
		t.Errorf("c2 subscriber: got %d events, want 0", otherContract)
	}
	if otherTable != 0 {
		t.Errorf("notes subscriber: got %d events, want 0", otherTable)
	}
}

func TestMemoryBusCancelReleasesSubscription(t *testing.T) {
	bus := NewMemoryBus()

	var count int
	cancel := bus.Subscribe(Scope{Table: TableContracts}, func(Event) { count++ })
	if bus.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", bus.SubscriberCount())
	}

	cancel()
	cancel() // safe to call twice

	if bus.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers after cancel, got %d", bus.SubscriberCount())
	}

	bus.Publish(Event{Table: TableContracts, ContractID: "c1", Op: OpInsert})
	if count != 0 {
		t.Fatalf("cancelled subscriber must not receive events, got %d", count)
	}
}
