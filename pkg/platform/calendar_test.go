package platform

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nikosa/p2pflow/pkg/browser"
	"github.com/nikosa/p2pflow/pkg/models"
)

// pickerSession fakes a date picker that opens on the displayed month and
// steps backwards on the previous-month arrow.
type pickerSession struct {
	shown   time.Time
	clicked []string
}

func (s *pickerSession) Navigate(context.Context, string) error { return nil }

func (s *pickerSession) Fill(context.Context, browser.Locator, string) error { return nil }

func (s *pickerSession) Click(_ context.Context, loc browser.Locator) error {
	if loc == swaperPrevArrow {
		s.shown = s.shown.AddDate(0, -1, 0)
		return nil
	}
	s.clicked = append(s.clicked, loc.Value)
	return nil
}

func (s *pickerSession) Hover(context.Context, browser.Locator) error { return nil }

func (s *pickerSession) WaitUntil(context.Context, browser.Condition, time.Duration) error {
	return nil
}

func (s *pickerSession) Exists(_ context.Context, loc browser.Locator) (bool, error) {
	return strings.Contains(loc.Value, wantedMonthLabel(s.shown)), nil
}

func (s *pickerSession) DownloadDir() string { return "" }

func (s *pickerSession) Close() error { return nil }

func TestSwaperCalendarStepsBackToWantedMonth(t *testing.T) {
	r, err := models.NewDateRange(
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	// Picker opens on March 2020, two steps away from the wanted month.
	sess := &pickerSession{shown: time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC)}
	if err := (&swaperCalendar{}).SetDateRange(context.Background(), sess, r); err != nil {
		t.Fatal(err)
	}

	var days []string
	for _, v := range sess.clicked {
		if strings.Contains(v, "'dates'") {
			days = append(days, v)
		}
	}
	if len(days) != 2 {
		t.Fatalf("clicked %d day cells, want 2: %v", len(days), sess.clicked)
	}
	if !strings.Contains(days[0], "='1'") {
		t.Errorf("first day cell click = %s, want day 1", days[0])
	}
	if !strings.Contains(days[1], "='31'") {
		t.Errorf("second day cell click = %s, want day 31", days[1])
	}
}

func TestSwaperCalendarGivesUpWhenMonthNeverShows(t *testing.T) {
	r, err := models.NewDateRange(
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	// The shown month is further away than the bounded number of backwards
	// steps, so the search must terminate with an error.
	sess := &pickerSession{shown: time.Date(2050, 6, 1, 0, 0, 0, 0, time.UTC)}
	err = (&swaperCalendar{}).SetDateRange(context.Background(), sess, r)
	if err == nil {
		t.Fatal("SetDateRange succeeded although the month was never shown")
	}
}
