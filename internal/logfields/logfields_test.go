package logfields

import (
	"log/slog"
	"testing"
)

// TestHelperKeyNames pins the key each string helper emits.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    interface{}
	}{
		{"Method", KeyMethod, "GET", Method("GET")},
		{"Path", KeyPath, "/docs/index.html", Path("/docs/index.html")},
		{"UserAgent", KeyUserAgent, "ua", UserAgent("ua")},
		{"RemoteAddr", KeyRemoteAddr, "1.2.3.4", RemoteAddr("1.2.3.4")},
		{"RequestID", KeyRequestID, "rid", RequestID("rid")},
		{"Page", KeyPage, "index", Page("index")},
		{"File", KeyFile, "file.md", File("file.md")},
		{"Subject", KeySubject, "pagetimer.views", Subject("pagetimer.views")},
		{"Component", KeyComponent, "annotator", Component("annotator")},
		{"Addr", KeyAddr, ":8080", Addr(":8080")},
	}

	for _, tc := range cases {
		a := tc.attr.(slog.Attr)
		if a.Key != tc.attrKey {
			// Queries saved against these keys stop matching if one drifts.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, a.Key)
		}
		if got := a.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers pins the keys of the int and float helpers.
func TestNumericHelpers(t *testing.T) {
	if v := Status(200); v.Key != KeyStatus {
		t.Fatalf("Status key mismatch: %s", v.Key)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS {
		t.Fatalf("DurationMS key mismatch: %s", v.Key)
	}
	if v := ElapsedMS(3.25); v.Key != KeyElapsedMS {
		t.Fatalf("ElapsedMS key mismatch: %s", v.Key)
	}
	if v := Queries(7); v.Key != KeyQueries {
		t.Fatalf("Queries key mismatch: %s", v.Key)
	}
	if v := PeakBytes(1 << 20); v.Key != KeyPeakBytes {
		t.Fatalf("PeakBytes key mismatch: %s", v.Key)
	}
	if v := Load1(0.42); v.Key != KeyLoad1 {
		t.Fatalf("Load1 key mismatch: %s", v.Key)
	}
	if v := Count(3); v.Key != KeyCount {
		t.Fatalf("Count key mismatch: %s", v.Key)
	}
}

// TestErrorHelper covers the nil and non-nil error paths.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError {
		t.Fatalf("Error key mismatch: %s", attr.Key)
	}
	if attr.Value.String() != "" {
		t.Fatalf("Expected empty error string, got %s", attr.Value.String())
	}
	attr = Error(errTest{})
	if attr.Value.String() != "err-test" {
		t.Fatalf("Expected 'err-test', got %s", attr.Value.String())
	}
}

type errTest struct{}

func (e errTest) Error() string { return "err-test" }
