package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"farmfeed-api/internal/common"
	"farmfeed-api/internal/entity"
)

func TestCreateOffer(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")

	input := &entity.CreateOfferInput{
		ListingId: listing.Id.String(), BuyerUsername: env.buyer.Username,
		Price: dec("1950"), Quantity: dec("50"), DeliveryType: common.DeliveryExFarm,
		Message: "can collect next week", IsNegotiable: true,
	}

	offer, err := env.offerService.CreateOffer(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}
	if offer.Status != common.OfferPending {
		t.Errorf("status = %q, want %q", offer.Status, common.OfferPending)
	}

	wantExpiry := testNow.AddDate(0, 0, common.OfferValidityDays)
	stored := env.offers.offers[offer.Id]
	if !stored.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expiresAt = %v, want %v", stored.ExpiresAt, wantExpiry)
	}
	if stored.SellerId != env.seller.Id {
		t.Errorf("sellerId not denormalized from listing")
	}
}

func TestCreateOfferValidation(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")

	base := func() *entity.CreateOfferInput {
		return &entity.CreateOfferInput{
			ListingId: listing.Id.String(), BuyerUsername: env.buyer.Username,
			Price: dec("1950"), Quantity: dec("50"), DeliveryType: common.DeliveryExFarm,
		}
	}

	cases := []struct {
		name    string
		mutate  func(*entity.CreateOfferInput)
		prepare func()
		wantErr error
	}{
		{
			name:    "seller offers on own listing",
			mutate:  func(in *entity.CreateOfferInput) { in.BuyerUsername = env.seller.Username },
			wantErr: ErrNotABuyer,
		},
		{
			name:    "quantity exceeds available",
			mutate:  func(in *entity.CreateOfferInput) { in.Quantity = dec("150") },
			wantErr: ErrInsufficientQuantity,
		},
		{
			name:    "non-positive price",
			mutate:  func(in *entity.CreateOfferInput) { in.Price = dec("0") },
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "non-positive quantity",
			mutate:  func(in *entity.CreateOfferInput) { in.Quantity = dec("-1") },
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "unknown user",
			mutate:  func(in *entity.CreateOfferInput) { in.BuyerUsername = "nobody" },
			wantErr: ErrUserNotFound,
		},
		{
			name:    "inactive listing",
			prepare: func() { env.listings.listings[listing.Id.String()].IsActive = false },
			wantErr: ErrListingNotActive,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.prepare != nil {
				tc.prepare()
				defer func() { env.listings.listings[listing.Id.String()].IsActive = true }()
			}
			in := base()
			if tc.mutate != nil {
				tc.mutate(in)
			}
			if _, err := env.offerService.CreateOffer(context.Background(), in); !errors.Is(err, tc.wantErr) {
				t.Errorf("CreateOffer error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCreateOfferOnOwnListing(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")
	env.listings.listings[listing.Id.String()].SellerId = env.buyer.Id

	input := &entity.CreateOfferInput{
		ListingId: listing.Id.String(), BuyerUsername: env.buyer.Username,
		Price: dec("1950"), Quantity: dec("50"), DeliveryType: common.DeliveryExFarm,
	}
	if _, err := env.offerService.CreateOffer(context.Background(), input); !errors.Is(err, ErrOwnListingOffer) {
		t.Errorf("CreateOffer error = %v, want %v", err, ErrOwnListingOffer)
	}
}

func TestCreateOfferDeliveryTypeUnavailable(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")
	listing.DeliveryDelivered = false

	input := &entity.CreateOfferInput{
		ListingId: listing.Id.String(), BuyerUsername: env.buyer.Username,
		Price: dec("1950"), Quantity: dec("50"), DeliveryType: common.DeliveryDelivered,
	}
	if _, err := env.offerService.CreateOffer(context.Background(), input); !errors.Is(err, ErrDeliveryTypeUnavailable) {
		t.Errorf("CreateOffer error = %v, want %v", err, ErrDeliveryTypeUnavailable)
	}
}

func TestAcceptOfferCreatesDeal(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")
	offer := env.seedOffer(listing, "1950", "50")

	deal, err := env.offerService.AcceptOffer(context.Background(), offer.Id.String(), env.seller.Username)
	if err != nil {
		t.Fatalf("AcceptOffer: %v", err)
	}

	// fee is R1 per ton, so 1950*50 + 50 = 97550
	if deal.PlatformFee != "50" {
		t.Errorf("platformFee = %s, want 50", deal.PlatformFee)
	}
	if deal.TotalAmount != "97550" {
		t.Errorf("totalAmount = %s, want 97550", deal.TotalAmount)
	}
	if deal.FinalPrice != "1950" {
		t.Errorf("finalPrice = %s, want 1950", deal.FinalPrice)
	}
	if deal.Status != common.DealPending {
		t.Errorf("deal status = %q, want %q", deal.Status, common.DealPending)
	}
	if deal.PaymentStatus != common.PaymentPending {
		t.Errorf("payment status = %q, want %q", deal.PaymentStatus, common.PaymentPending)
	}

	if got := env.offers.offers[offer.Id.String()].Status; got != common.OfferAccepted {
		t.Errorf("offer status = %q, want %q", got, common.OfferAccepted)
	}
	if got := env.listings.listings[listing.Id.String()].AvailableQuantity; got.String() != "50" {
		t.Errorf("available quantity = %s, want 50", got)
	}
}

func TestAcceptOfferIsTerminal(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")
	offer := env.seedOffer(listing, "1950", "50")

	if _, err := env.offerService.AcceptOffer(context.Background(), offer.Id.String(), env.seller.Username); err != nil {
		t.Fatalf("first accept: %v", err)
	}

	if _, err := env.offerService.AcceptOffer(context.Background(), offer.Id.String(), env.seller.Username); !errors.Is(err, ErrOfferNotOpen) {
		t.Errorf("second accept error = %v, want %v", err, ErrOfferNotOpen)
	}
	if _, err := env.offerService.RejectOffer(context.Background(), offer.Id.String(), env.seller.Username); !errors.Is(err, ErrOfferNotOpen) {
		t.Errorf("reject after accept error = %v, want %v", err, ErrOfferNotOpen)
	}
	if _, err := env.offerService.CounterOffer(context.Background(), offer.Id.String(), env.seller.Username, dec("2100"), "try again"); !errors.Is(err, ErrOfferNotOpen) {
		t.Errorf("counter after accept error = %v, want %v", err, ErrOfferNotOpen)
	}

	// listing quantity is decremented exactly once
	if got := env.listings.listings[listing.Id.String()].AvailableQuantity; got.String() != "50" {
		t.Errorf("available quantity = %s, want 50", got)
	}
}

func TestAcceptOfferAuthorization(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")
	offer := env.seedOffer(listing, "1950", "50")

	if _, err := env.offerService.AcceptOffer(context.Background(), offer.Id.String(), env.buyer.Username); !errors.Is(err, ErrUserHasNoAccessToOffer) {
		t.Errorf("buyer accept error = %v, want %v", err, ErrUserHasNoAccessToOffer)
	}
}

func TestAcceptExpiredOffer(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")
	offer := env.seedOffer(listing, "1950", "50")
	offer.ExpiresAt = testNow.AddDate(0, 0, -1)

	if _, err := env.offerService.AcceptOffer(context.Background(), offer.Id.String(), env.seller.Username); !errors.Is(err, ErrOfferExpired) {
		t.Errorf("accept expired error = %v, want %v", err, ErrOfferExpired)
	}
	if got := env.offers.offers[offer.Id.String()].Status; got != common.OfferPending {
		t.Errorf("stored status = %q, want %q (expiry is never persisted)", got, common.OfferPending)
	}
}

func TestRejectOffer(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")
	offer := env.seedOffer(listing, "1950", "50")

	rejected, err := env.offerService.RejectOffer(context.Background(), offer.Id.String(), env.seller.Username)
	if err != nil {
		t.Fatalf("RejectOffer: %v", err)
	}
	if rejected.Status != common.OfferRejected {
		t.Errorf("status = %q, want %q", rejected.Status, common.OfferRejected)
	}

	if _, err := env.offerService.RejectOffer(context.Background(), offer.Id.String(), env.seller.Username); !errors.Is(err, ErrOfferNotOpen) {
		t.Errorf("second reject error = %v, want %v", err, ErrOfferNotOpen)
	}
}

func TestCounterOfferFlow(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")
	offer := env.seedOffer(listing, "1950", "50")

	countered, err := env.offerService.CounterOffer(context.Background(), offer.Id.String(), env.seller.Username, dec("1980"), "fuel costs went up")
	if err != nil {
		t.Fatalf("CounterOffer: %v", err)
	}
	if countered.Status != common.OfferCounterOffered {
		t.Errorf("status = %q, want %q", countered.Status, common.OfferCounterOffered)
	}
	if countered.CounterOffer == nil || countered.CounterOffer.Price != "1980" {
		t.Fatalf("counter slot not populated: %+v", countered.CounterOffer)
	}

	// a second counter overwrites the slot
	countered, err = env.offerService.CounterOffer(context.Background(), offer.Id.String(), env.seller.Username, dec("1970"), "final price")
	if err != nil {
		t.Fatalf("second CounterOffer: %v", err)
	}
	if countered.CounterOffer.Price != "1970" {
		t.Errorf("counter price = %s, want 1970", countered.CounterOffer.Price)
	}

	// seller can't accept while their own counter is on the table
	if _, err := env.offerService.AcceptOffer(context.Background(), offer.Id.String(), env.seller.Username); !errors.Is(err, ErrOfferNotOpen) {
		t.Errorf("accept countered error = %v, want %v", err, ErrOfferNotOpen)
	}

	updated, deal, err := env.offerService.RespondToCounter(context.Background(), offer.Id.String(), env.buyer.Username, common.DecisionAccept)
	if err != nil {
		t.Fatalf("RespondToCounter: %v", err)
	}
	if deal == nil {
		t.Fatal("expected a deal on counter acceptance")
	}
	if deal.FinalPrice != "1970" {
		t.Errorf("finalPrice = %s, want counter price 1970", deal.FinalPrice)
	}
	// 1970*50 + 50
	if deal.TotalAmount != "98550" {
		t.Errorf("totalAmount = %s, want 98550", deal.TotalAmount)
	}
	if updated.Status != common.OfferAccepted {
		t.Errorf("offer status = %q, want %q", updated.Status, common.OfferAccepted)
	}
	if !strings.HasSuffix(updated.Message, common.CounterAcceptedMark) {
		t.Errorf("message %q missing acceptance marker", updated.Message)
	}
}

func TestRespondToCounterReject(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")
	offer := env.seedOffer(listing, "1950", "50")

	if _, err := env.offerService.CounterOffer(context.Background(), offer.Id.String(), env.seller.Username, dec("1980"), "fuel costs went up"); err != nil {
		t.Fatalf("CounterOffer: %v", err)
	}

	updated, deal, err := env.offerService.RespondToCounter(context.Background(), offer.Id.String(), env.buyer.Username, common.DecisionReject)
	if err != nil {
		t.Fatalf("RespondToCounter: %v", err)
	}
	if deal != nil {
		t.Error("no deal expected on counter rejection")
	}
	if updated.Status != common.OfferRejected {
		t.Errorf("offer status = %q, want %q", updated.Status, common.OfferRejected)
	}
	if !strings.HasSuffix(updated.Message, common.CounterRejectedMark) {
		t.Errorf("message %q missing rejection marker", updated.Message)
	}

	if got := env.listings.listings[listing.Id.String()].AvailableQuantity; got.String() != "100" {
		t.Errorf("available quantity = %s, want untouched 100", got)
	}
}

func TestRespondToCounterGuards(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")
	offer := env.seedOffer(listing, "1950", "50")

	if _, _, err := env.offerService.RespondToCounter(context.Background(), offer.Id.String(), env.buyer.Username, common.DecisionAccept); !errors.Is(err, ErrNoActiveCounter) {
		t.Errorf("respond without counter error = %v, want %v", err, ErrNoActiveCounter)
	}

	if _, err := env.offerService.CounterOffer(context.Background(), offer.Id.String(), env.seller.Username, dec("1980"), "fuel costs went up"); err != nil {
		t.Fatalf("CounterOffer: %v", err)
	}

	if _, _, err := env.offerService.RespondToCounter(context.Background(), offer.Id.String(), env.seller.Username, common.DecisionAccept); !errors.Is(err, ErrUserHasNoAccessToOffer) {
		t.Errorf("seller responding error = %v, want %v", err, ErrUserHasNoAccessToOffer)
	}
}

func TestCounterOfferRequiresMessage(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")
	offer := env.seedOffer(listing, "1950", "50")

	if _, err := env.offerService.CounterOffer(context.Background(), offer.Id.String(), env.seller.Username, dec("1980"), ""); !errors.Is(err, ErrCounterMessageRequired) {
		t.Errorf("counter without message error = %v, want %v", err, ErrCounterMessageRequired)
	}
}

func TestGetOfferStatusDerivedExpiry(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")
	offer := env.seedOffer(listing, "1950", "50")
	offer.ExpiresAt = testNow.AddDate(0, 0, -1)

	status, err := env.offerService.GetOfferStatusById(context.Background(), offer.Id.String(), env.buyer.Username)
	if err != nil {
		t.Fatalf("GetOfferStatusById: %v", err)
	}
	if status != common.OfferExpired {
		t.Errorf("status = %q, want %q", status, common.OfferExpired)
	}
}

func TestGetUserOffersActiveOnly(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")
	open := env.seedOffer(listing, "1950", "10")
	stale := env.seedOffer(listing, "1900", "10")
	stale.ExpiresAt = testNow.AddDate(0, 0, -1)
	closed := env.seedOffer(listing, "1850", "10")
	closed.Status = common.OfferRejected

	offers, err := env.offerService.GetUserOffers(context.Background(), env.buyer.Username, true, entity.NewPaginationInput(50, 0))
	if err != nil {
		t.Fatalf("GetUserOffers: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("got %d active offers, want 1", len(offers))
	}
	if offers[0].Id != open.Id.String() {
		t.Errorf("active offer id = %s, want %s", offers[0].Id, open.Id)
	}

	all, err := env.offerService.GetUserOffers(context.Background(), env.buyer.Username, false, entity.NewPaginationInput(50, 0))
	if err != nil {
		t.Fatalf("GetUserOffers all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d offers, want 3", len(all))
	}
}
