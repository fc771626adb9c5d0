package series

import (
	"testing"
	"time"

	"centavo/internal/models"
	"centavo/internal/testutil"
)

func TestSummarize(t *testing.T) {
	start := date(2024, time.January, 15)

	t.Run("empty_group", func(t *testing.T) {
		_, err := Summarize(nil, start)
		testutil.AssertAppError(t, err, "SERIES_NOT_FOUND")
	})

	t.Run("installment_progress", func(t *testing.T) {
		// 5 x 10000 starting Jan 15; as of Mar 20 three have passed.
		members := installmentSeries("g1", 5, start)
		summary, err := Summarize(members, date(2024, time.March, 20))
		testutil.AssertNoError(t, err)

		if summary.Kind != KindInstallment {
			t.Errorf("expected installment kind, got %s", summary.Kind)
		}
		if summary.PaidInstallments != 3 {
			t.Errorf("expected 3 paid, got %d", summary.PaidInstallments)
		}
		if summary.TotalInstallments != 5 {
			t.Errorf("expected 5 total, got %d", summary.TotalInstallments)
		}
		if summary.TotalAmount != 50000 {
			t.Errorf("expected total 50000, got %d", summary.TotalAmount)
		}
		if summary.RemainingAmount != 20000 {
			t.Errorf("expected remaining 20000, got %d", summary.RemainingAmount)
		}
		if summary.MonthlyAmount != 10000 {
			t.Errorf("expected monthly 10000, got %d", summary.MonthlyAmount)
		}
	})

	t.Run("member_on_as_of_date_counts_as_paid", func(t *testing.T) {
		members := installmentSeries("g1", 3, start)
		summary, err := Summarize(members, start)
		testutil.AssertNoError(t, err)
		if summary.PaidInstallments != 1 {
			t.Errorf("expected 1 paid, got %d", summary.PaidInstallments)
		}
	})

	t.Run("nothing_paid_before_start", func(t *testing.T) {
		members := installmentSeries("g1", 3, start)
		summary, err := Summarize(members, date(2023, time.December, 31))
		testutil.AssertNoError(t, err)
		if summary.PaidInstallments != 0 {
			t.Errorf("expected 0 paid, got %d", summary.PaidInstallments)
		}
		if summary.RemainingAmount != summary.TotalAmount {
			t.Errorf("expected everything remaining, got %d of %d", summary.RemainingAmount, summary.TotalAmount)
		}
	})

	t.Run("stamped_total_survives_deleted_members", func(t *testing.T) {
		// Two future members were deleted; the original plan size stays.
		members := installmentSeries("g1", 5, start)[:3]
		summary, err := Summarize(members, date(2024, time.December, 1))
		testutil.AssertNoError(t, err)
		if summary.TotalInstallments != 5 {
			t.Errorf("expected stamped total 5, got %d", summary.TotalInstallments)
		}
		if summary.TotalAmount != 30000 {
			t.Errorf("expected observed total 30000, got %d", summary.TotalAmount)
		}
	})

	t.Run("recurring_summary", func(t *testing.T) {
		members := []models.Transaction{
			recurringMember(1, "r1", date(2024, time.January, 10)),
			recurringMember(2, "r1", date(2024, time.February, 10)),
			recurringMember(3, "r1", date(2024, time.March, 10)),
		}
		summary, err := Summarize(members, date(2024, time.February, 15))
		testutil.AssertNoError(t, err)

		if summary.Kind != KindRecurring {
			t.Errorf("expected recurring kind, got %s", summary.Kind)
		}
		if summary.PaidInstallments != 2 {
			t.Errorf("expected 2 paid, got %d", summary.PaidInstallments)
		}
		if summary.TotalInstallments != 3 {
			t.Errorf("expected observed count 3, got %d", summary.TotalInstallments)
		}
		if summary.MonthlyAmount != 4990 {
			t.Errorf("expected monthly 4990, got %d", summary.MonthlyAmount)
		}
	})

	t.Run("unsorted_input", func(t *testing.T) {
		members := installmentSeries("g1", 4, start)
		members[0], members[3] = members[3], members[0]
		summary, err := Summarize(members, date(2024, time.February, 20))
		testutil.AssertNoError(t, err)
		if summary.PaidInstallments != 2 {
			t.Errorf("expected 2 paid, got %d", summary.PaidInstallments)
		}
	})
}
