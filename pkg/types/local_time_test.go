package types

import (
	"encoding/json"
	"testing"
)

func TestParseLocalTime(t *testing.T) {
	got, err := ParseLocalTime("15:50")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Hour != 15 || got.Minute != 50 {
		t.Fatalf("unexpected time %+v", got)
	}

	for _, bad := range []string{"", "25:00", "12:61", "9:5", "noon", "15:50:30"} {
		if _, err := ParseLocalTime(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestLocalTimeJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(LocalTime{Hour: 7, Minute: 5})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"07:05"` {
		t.Fatalf("unexpected encoding %s", raw)
	}

	var decoded LocalTime
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Hour != 7 || decoded.Minute != 5 {
		t.Fatalf("unexpected decoded time %+v", decoded)
	}

	if err := json.Unmarshal([]byte(`"24:99"`), &decoded); err == nil {
		t.Fatal("expected error for out of range time")
	}
}
