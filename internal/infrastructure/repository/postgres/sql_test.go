package postgres

import (
	"database/sql"
	"errors"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/riskibarqy/teamflow/internal/domain/event"
	"github.com/riskibarqy/teamflow/internal/domain/record"
)

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

func TestIsBindParameterMismatch(t *testing.T) {
	t.Run("matches bind mismatch error", func(t *testing.T) {
		err := fakeErr("pq: bind message supplies 2 parameters, but prepared statement \"\" requires 1 (08P01)")
		if !isBindParameterMismatch(err) {
			t.Fatalf("expected true for bind mismatch error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation record_slots does not exist")
		if isBindParameterMismatch(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsUnnamedPreparedStatementMissing(t *testing.T) {
	t.Run("matches statement missing message", func(t *testing.T) {
		err := fakeErr("pq: unnamed prepared statement does not exist (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for statement missing error")
		}
	})

	t.Run("matches pq error code", func(t *testing.T) {
		err := &pq.Error{Code: "26000", Message: "prepared statement \"\" does not exist"}
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for 26000 pq error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation record_slots does not exist")
		if isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestWithStatementRetry(t *testing.T) {
	calls := 0
	err := withStatementRetry(func() error {
		calls++
		if calls == 1 {
			return fakeErr("pq: unnamed prepared statement does not exist (26000)")
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Fatalf("expected one retry, got calls=%d err=%v", calls, err)
	}

	calls = 0
	boom := errors.New("boom")
	if err := withStatementRetry(func() error { calls++; return boom }); !errors.Is(err, boom) || calls != 1 {
		t.Fatalf("expected no retry for unrelated error, got calls=%d err=%v", calls, err)
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(crerr.Wrap(sql.ErrNoRows, "select")) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(errors.New("other")) {
		t.Fatalf("expected other errors not to be not found")
	}
}

func TestDecodeSlot(t *testing.T) {
	items, err := decodeSlot[event.Event](record.KeyEvents, []byte(`[{"id":"e1","type":"game","date":"2024-06-01","time":"18:00","location":"Gym","availability":{"p1":"maybe"}}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].Availability["p1"] != event.StatusMaybe {
		t.Fatalf("unexpected items: %+v", items)
	}

	empty, err := decodeSlot[event.Event](record.KeyEvents, []byte(`null`))
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty slice for null payload, got %v %v", empty, err)
	}

	if _, err := decodeSlot[event.Event](record.KeyEvents, []byte(`{"not":"a list"}`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestEncodeSlot(t *testing.T) {
	payload, err := encodeSlot(record.KeyEvents, []event.Event{{ID: "e1", Availability: map[string]event.Status{"p1": event.StatusAvailable}}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if payload == "" || payload[0] != '[' || payload[len(payload)-1] != ']' {
		t.Fatalf("expected a bare JSON array as text, got %q", payload)
	}

	items, err := decodeSlot[event.Event](record.KeyEvents, []byte(payload))
	if err != nil {
		t.Fatalf("decode encoded payload: %v", err)
	}
	if len(items) != 1 || items[0].Availability["p1"] != event.StatusAvailable {
		t.Fatalf("unexpected round trip: %+v", items)
	}

	empty, err := encodeSlot[event.Event](record.KeyEvents, nil)
	if err != nil || empty != "[]" {
		t.Fatalf("expected [] for nil slot, got %q %v", empty, err)
	}
}
