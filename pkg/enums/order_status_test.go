package enums

import "testing"

func TestParseOrderStatus(t *testing.T) {
	for _, value := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		status, err := ParseOrderStatus(value)
		if err != nil {
			t.Fatalf("ParseOrderStatus(%q) returned error: %v", value, err)
		}
		if status.String() != value {
			t.Fatalf("round trip mismatch for %q", value)
		}
	}

	if _, err := ParseOrderStatus("refunded"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if _, err := ParseOrderStatus("Pending"); err == nil {
		t.Fatal("status parsing should be case sensitive")
	}
}

func TestOrderStatusIsCancellable(t *testing.T) {
	cancellable := map[OrderStatus]bool{
		OrderStatusPending:    true,
		OrderStatusProcessing: true,
		OrderStatusShipped:    false,
		OrderStatusDelivered:  false,
		OrderStatusCancelled:  false,
	}
	for status, want := range cancellable {
		if got := status.IsCancellable(); got != want {
			t.Fatalf("IsCancellable(%s) = %v, want %v", status, got, want)
		}
	}
}
