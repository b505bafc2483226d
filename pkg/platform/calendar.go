package platform

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nikosa/p2pflow/pkg/browser"
	"github.com/nikosa/p2pflow/pkg/models"
)

// swaperCalendar drives Swaper's date picker, which only accepts clicks on
// its day table. The picker opens on the displayed month; the driver steps
// backwards with the previous-month arrow until the wanted month shows, then
// clicks the day cell.
type swaperCalendar struct{}

var (
	swaperStartPicker = browser.Locator{By: browser.ByXPath, Value: "//div[@class='date-picker'][1]"}
	swaperEndPicker   = browser.Locator{By: browser.ByXPath, Value: "//div[@class='date-picker'][2]"}
	swaperMonthLabel  = browser.Locator{By: browser.ByXPath, Value: "//*[@class='datepicker opened']//*[@class='month']"}
	swaperPrevArrow   = browser.Locator{By: browser.ByXPath, Value: "//*[@class='datepicker opened']//*[@class='arrow left']"}
)

func (c *swaperCalendar) SetDateRange(ctx context.Context, sess browser.Session, r models.DateRange) error {
	if err := c.pickDate(ctx, sess, swaperStartPicker, r.Start); err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	if err := c.pickDate(ctx, sess, swaperEndPicker, r.End); err != nil {
		return fmt.Errorf("end date: %w", err)
	}
	return nil
}

func (c *swaperCalendar) pickDate(ctx context.Context, sess browser.Session, picker browser.Locator, date time.Time) error {
	if err := sess.Click(ctx, picker); err != nil {
		return fmt.Errorf("opening date picker: %w", err)
	}
	if err := sess.WaitUntil(ctx, browser.Present(swaperMonthLabel), 5*time.Second); err != nil {
		return fmt.Errorf("date picker did not open: %w", err)
	}

	// The picker never shows future months, so at most a few years of
	// backwards steps are needed. Bound the loop to avoid clicking forever
	// when the month label cannot be matched.
	wanted := wantedMonthLabel(date)
	for i := 0; i < 120; i++ {
		found, err := sess.Exists(ctx, browser.Locator{
			By:    browser.ByXPath,
			Value: fmt.Sprintf("//*[@class='datepicker opened']//*[@class='month' and contains(text(),'%s')]", wanted),
		})
		if err != nil {
			return err
		}
		if found {
			return sess.Click(ctx, browser.Locator{
				By: browser.ByXPath,
				Value: fmt.Sprintf(
					"//*[@class='datepicker opened']//*[@class='dates']//table//td[normalize-space(text())='%s']",
					strconv.Itoa(date.Day())),
			})
		}
		if err := sess.Click(ctx, swaperPrevArrow); err != nil {
			return fmt.Errorf("stepping calendar month: %w", err)
		}
	}
	return fmt.Errorf("could not locate month %s in calendar", wanted)
}

func wantedMonthLabel(date time.Time) string {
	return fmt.Sprintf("%s %d", date.Format("January"), date.Year())
}
