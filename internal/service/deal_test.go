package service

import (
	"context"
	"errors"
	"testing"

	"farmfeed-api/internal/common"
)

func (e *testEnv) seedDeal(t *testing.T) string {
	t.Helper()
	listing := e.seedListing("2000", "100")
	offer := e.seedOffer(listing, "1950", "50")

	deal, err := e.offerService.AcceptOffer(context.Background(), offer.Id.String(), e.seller.Username)
	if err != nil {
		t.Fatalf("seed deal: %v", err)
	}

	return deal.Id
}

func TestAdvanceDealLadder(t *testing.T) {
	env := newTestEnv()
	dealId := env.seedDeal(t)

	want := []string{
		common.DealConnected,
		common.DealTransportQuoted,
		common.DealTransportSelected,
		common.DealFacilitated,
	}
	for _, status := range want {
		deal, err := env.dealService.AdvanceDeal(context.Background(), dealId, env.buyer.Username)
		if err != nil {
			t.Fatalf("AdvanceDeal to %s: %v", status, err)
		}
		if deal.Status != status {
			t.Fatalf("status = %q, want %q", deal.Status, status)
		}
	}

	if _, err := env.dealService.AdvanceDeal(context.Background(), dealId, env.buyer.Username); !errors.Is(err, ErrInvalidDealTransition) {
		t.Errorf("advance past facilitated error = %v, want %v", err, ErrInvalidDealTransition)
	}
}

func TestCancelDeal(t *testing.T) {
	env := newTestEnv()
	dealId := env.seedDeal(t)

	deal, err := env.dealService.CancelDeal(context.Background(), dealId, env.seller.Username)
	if err != nil {
		t.Fatalf("CancelDeal: %v", err)
	}
	if deal.Status != common.DealCancelled {
		t.Errorf("status = %q, want %q", deal.Status, common.DealCancelled)
	}

	if _, err := env.dealService.CancelDeal(context.Background(), dealId, env.seller.Username); !errors.Is(err, ErrInvalidDealTransition) {
		t.Errorf("second cancel error = %v, want %v", err, ErrInvalidDealTransition)
	}
	if _, err := env.dealService.AdvanceDeal(context.Background(), dealId, env.seller.Username); !errors.Is(err, ErrInvalidDealTransition) {
		t.Errorf("advance cancelled error = %v, want %v", err, ErrInvalidDealTransition)
	}
}

func TestCancelFacilitatedDeal(t *testing.T) {
	env := newTestEnv()
	dealId := env.seedDeal(t)
	env.deals.deals[dealId].Status = common.DealFacilitated

	if _, err := env.dealService.CancelDeal(context.Background(), dealId, env.buyer.Username); !errors.Is(err, ErrInvalidDealTransition) {
		t.Errorf("cancel facilitated error = %v, want %v", err, ErrInvalidDealTransition)
	}
}

func TestDealAccess(t *testing.T) {
	env := newTestEnv()
	dealId := env.seedDeal(t)

	if _, err := env.dealService.GetDealById(context.Background(), dealId, env.transporter.Username); !errors.Is(err, ErrUserHasNoAccessToDeal) {
		t.Errorf("outsider access error = %v, want %v", err, ErrUserHasNoAccessToDeal)
	}
	if _, err := env.dealService.GetDealById(context.Background(), dealId, env.buyer.Username); err != nil {
		t.Errorf("buyer access: %v", err)
	}
	if _, err := env.dealService.GetDealById(context.Background(), dealId, env.seller.Username); err != nil {
		t.Errorf("seller access: %v", err)
	}
}

func TestUpdateDealPaymentStatus(t *testing.T) {
	env := newTestEnv()
	dealId := env.seedDeal(t)

	deal, err := env.dealService.UpdateDealPaymentStatus(context.Background(), dealId, env.buyer.Username, common.PaymentPaid)
	if err != nil {
		t.Fatalf("UpdateDealPaymentStatus: %v", err)
	}
	if deal.PaymentStatus != common.PaymentPaid {
		t.Errorf("payment status = %q, want %q", deal.PaymentStatus, common.PaymentPaid)
	}
}
