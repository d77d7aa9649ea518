package amqp

import "testing"

func TestRecordAppendedMessageRoundTrip(t *testing.T) {
	msg := NewRecordAppendedMessage(KindDonation, 42, "FOOD")

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := RecordAppendedMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Kind != KindDonation || got.ID != 42 || got.DonationType != "FOOD" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatalf("timestamp not set")
	}
}

func TestRecordAppendedMessageFromInvalidJSON(t *testing.T) {
	if _, err := RecordAppendedMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}
