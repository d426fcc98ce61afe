package calendar

import (
	"testing"
	"time"

	"github.com/petfurme/petcal/internal/appointment"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-06-15", want: day(2024, time.June, 15)},
		{in: "2024-06-15T00:00:00", want: day(2024, time.June, 15)},
		{in: "2024-06-15 13:45:00", want: day(2024, time.June, 15)},
		{in: " 2024-06-15 ", want: day(2024, time.June, 15)},
		{in: "15/06/2024", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range testCases {
		got, err := ParseDate(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q) error: %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDateRoundTripEquality(t *testing.T) {
	// A bare date and a midnight timestamp must land on the same calendar
	// day regardless of the local offset's sign.
	plain, err := ParseDate("2024-06-15")
	if err != nil {
		t.Fatal(err)
	}
	stamped, err := ParseDate("2024-06-15T00:00:00")
	if err != nil {
		t.Fatal(err)
	}
	if !appointment.SameDay(plain, stamped) {
		t.Errorf("%v and %v should be the same calendar day", plain, stamped)
	}
}
