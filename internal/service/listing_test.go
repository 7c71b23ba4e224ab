package service

import (
	"context"
	"errors"
	"testing"

	"farmfeed-api/internal/entity"
)

func TestCreateListing(t *testing.T) {
	env := newTestEnv()

	input := &entity.CreateListingInput{
		SellerUsername: env.seller.Username, Product: "yellow maize",
		Price: dec("2000"), Currency: "ZAR", Quantity: dec("100"),
		Location: "Free State", DeliveryExFarm: true, QualityGrade: "A",
		ExpiresAt: testNow.AddDate(0, 1, 0),
	}

	listing, err := env.listingService.CreateListing(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateListing: %v", err)
	}
	if !listing.IsActive {
		t.Error("new listing should be active")
	}
	if listing.AvailableQuantity != "100" {
		t.Errorf("availableQuantity = %s, want full quantity 100", listing.AvailableQuantity)
	}

	input.SellerUsername = env.buyer.Username
	if _, err := env.listingService.CreateListing(context.Background(), input); !errors.Is(err, ErrNotASeller) {
		t.Errorf("buyer create error = %v, want %v", err, ErrNotASeller)
	}
}

func TestGetActiveListingsFiltersExpired(t *testing.T) {
	env := newTestEnv()
	env.seedListing("2000", "100")
	expired := env.seedListing("1800", "100")
	expired.ExpiresAt = testNow.AddDate(0, 0, -1)
	inactive := env.seedListing("1900", "100")
	inactive.IsActive = false

	listings, err := env.listingService.GetActiveListings(context.Background(), "", entity.NewPaginationInput(50, 0))
	if err != nil {
		t.Fatalf("GetActiveListings: %v", err)
	}
	if len(listings) != 1 {
		t.Errorf("got %d listings, want 1", len(listings))
	}
}

func TestUpdateListingActiveOwnership(t *testing.T) {
	env := newTestEnv()
	listing := env.seedListing("2000", "100")

	if _, err := env.listingService.UpdateListingActiveById(context.Background(), listing.Id.String(), env.buyer.Username, false); !errors.Is(err, ErrUserHasNoAccessToListing) {
		t.Errorf("non-owner deactivate error = %v, want %v", err, ErrUserHasNoAccessToListing)
	}

	updated, err := env.listingService.UpdateListingActiveById(context.Background(), listing.Id.String(), env.seller.Username, false)
	if err != nil {
		t.Fatalf("UpdateListingActiveById: %v", err)
	}
	if updated.IsActive {
		t.Error("listing should be inactive")
	}
}

func TestCreateBackload(t *testing.T) {
	env := newTestEnv()

	input := &entity.CreateBackloadInput{
		TransporterUsername: env.transporter.Username,
		FromLocation:        "Durban",
		ToLocation:          "Bethlehem",
		CapacityTons:        dec("30"),
		AvailableDate:       testNow.AddDate(0, 0, 6),
	}

	backload, err := env.backloadService.CreateBackload(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateBackload: %v", err)
	}
	if !backload.IsActive {
		t.Error("new backload should be active")
	}

	input.TransporterUsername = env.buyer.Username
	if _, err := env.backloadService.CreateBackload(context.Background(), input); !errors.Is(err, ErrNotATransporter) {
		t.Errorf("buyer backload error = %v, want %v", err, ErrNotATransporter)
	}

	backloads, err := env.backloadService.GetActiveBackloads(context.Background(), entity.NewPaginationInput(50, 0))
	if err != nil {
		t.Fatalf("GetActiveBackloads: %v", err)
	}
	if len(backloads) != 1 {
		t.Errorf("got %d backloads, want 1", len(backloads))
	}
}
