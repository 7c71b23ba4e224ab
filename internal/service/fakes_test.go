package service

import (
	"context"
	"time"

	"farmfeed-api/internal/common"
	"farmfeed-api/internal/entity"
	"farmfeed-api/internal/notifier"
	"farmfeed-api/internal/repo"
	"farmfeed-api/internal/repo/repo_errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*entity.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	c := *u

	return &c, nil
}

func (r *fakeUserRepo) DoesUserExistById(_ context.Context, id string) (bool, error) {
	for _, u := range r.users {
		if u.Id.String() == id {
			return true, nil
		}
	}

	return false, nil
}

type fakeListingRepo struct {
	listings map[string]*entity.Listing
}

func (r *fakeListingRepo) CreateListing(_ context.Context, input *entity.CreateListingInput) (uuid.UUID, error) {
	id := uuid.New()
	r.listings[id.String()] = &entity.Listing{
		Id: id, SellerId: input.SellerId, Product: input.Product, Price: input.Price,
		Currency: input.Currency, Quantity: input.Quantity, AvailableQuantity: input.Quantity,
		Location: input.Location, DeliveryExFarm: input.DeliveryExFarm,
		DeliveryDelivered: input.DeliveryDelivered, QualityGrade: input.QualityGrade,
		ExpiresAt: input.ExpiresAt, IsActive: true, CreatedAt: testNow.Format(time.RFC3339),
	}

	return id, nil
}

func (r *fakeListingRepo) GetListingById(_ context.Context, id string) (*entity.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	c := *l

	return &c, nil
}

func (r *fakeListingRepo) EditListingById(_ context.Context, id string, product, location, qualityGrade string) error {
	l, ok := r.listings[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if product != "" {
		l.Product = product
	}
	if location != "" {
		l.Location = location
	}
	if qualityGrade != "" {
		l.QualityGrade = qualityGrade
	}

	return nil
}

func (r *fakeListingRepo) UpdateListingActiveById(_ context.Context, id string, active bool) error {
	l, ok := r.listings[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	l.IsActive = active

	return nil
}

func (r *fakeListingRepo) GetActiveListings(_ context.Context, product string, now time.Time, _ *entity.PaginationInput) ([]entity.Listing, error) {
	out := make([]entity.Listing, 0)
	for _, l := range r.listings {
		if !l.IsActive || l.IsExpired(now) {
			continue
		}
		if product != "" && l.Product != product {
			continue
		}
		out = append(out, *l)
	}

	return out, nil
}

func (r *fakeListingRepo) GetUserListings(_ context.Context, sellerId string, _ *entity.PaginationInput) ([]entity.Listing, error) {
	out := make([]entity.Listing, 0)
	for _, l := range r.listings {
		if l.SellerId.String() == sellerId {
			out = append(out, *l)
		}
	}

	return out, nil
}

type fakeOfferRepo struct {
	offers map[string]*entity.Offer
}

func (r *fakeOfferRepo) CreateOffer(_ context.Context, input *entity.CreateOfferInput) (uuid.UUID, error) {
	id := uuid.New()
	listingId, err := uuid.Parse(input.ListingId)
	if err != nil {
		return uuid.Nil, err
	}
	r.offers[id.String()] = &entity.Offer{
		Id: id, ListingId: listingId, BuyerId: input.BuyerId, SellerId: input.SellerId,
		Price: input.Price, Quantity: input.Quantity, DeliveryType: input.DeliveryType,
		DeliveryAddress: input.DeliveryAddress, Message: input.Message, Status: input.Status,
		ExpiresAt: input.ExpiresAt, IsNegotiable: input.IsNegotiable, Terms: input.Terms,
		CreatedAt: testNow.Format(time.RFC3339),
	}

	return id, nil
}

func (r *fakeOfferRepo) GetOfferById(_ context.Context, id string) (*entity.Offer, error) {
	o, ok := r.offers[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	c := *o

	return &c, nil
}

func offerIsOpen(o *entity.Offer) bool {
	return o.Status == common.OfferPending || o.Status == common.OfferCounterOffered
}

func (r *fakeOfferRepo) UpdateOfferStatusIfOpen(_ context.Context, id string, newStatus string, annotation string) error {
	o, ok := r.offers[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if !offerIsOpen(o) {
		return repo_errors.ErrConflict
	}
	o.Status = newStatus
	o.Message += annotation

	return nil
}

func (r *fakeOfferRepo) SetCounterOffer(_ context.Context, id string, price decimal.Decimal, message string, at time.Time) error {
	o, ok := r.offers[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if !offerIsOpen(o) {
		return repo_errors.ErrConflict
	}
	o.Status = common.OfferCounterOffered
	o.CounterPrice = decimal.NullDecimal{Decimal: price, Valid: true}
	o.CounterMessage = message
	counterAt := at
	o.CounterCreatedAt = &counterAt

	return nil
}

func (r *fakeOfferRepo) GetUserOffers(_ context.Context, buyerId string, activeOnly bool, now time.Time, _ *entity.PaginationInput) ([]entity.Offer, error) {
	out := make([]entity.Offer, 0)
	for _, o := range r.offers {
		if o.BuyerId.String() != buyerId {
			continue
		}
		if activeOnly && (!offerIsOpen(o) || o.IsExpired(now)) {
			continue
		}
		out = append(out, *o)
	}

	return out, nil
}

func (r *fakeOfferRepo) GetListingOffers(_ context.Context, listingId string, _ *entity.PaginationInput) ([]entity.Offer, error) {
	out := make([]entity.Offer, 0)
	for _, o := range r.offers {
		if o.ListingId.String() == listingId {
			out = append(out, *o)
		}
	}

	return out, nil
}

type fakeDealRepo struct {
	deals       map[string]*entity.Deal
	dealByOffer map[string]uuid.UUID
	offerRepo   *fakeOfferRepo
	listingRepo *fakeListingRepo
}

func (r *fakeDealRepo) CreateDealFromOffer(ctx context.Context, input *entity.CreateDealInput) (uuid.UUID, error) {
	if err := r.offerRepo.UpdateOfferStatusIfOpen(ctx, input.OfferId.String(), common.OfferAccepted, input.OfferAnnotation); err != nil {
		return uuid.Nil, err
	}

	listing := r.listingRepo.listings[input.ListingId.String()]
	if listing == nil || listing.AvailableQuantity.LessThan(input.Quantity) {
		return uuid.Nil, repo_errors.ErrOutOfStock
	}

	if _, exists := r.dealByOffer[input.OfferId.String()]; exists {
		return uuid.Nil, repo_errors.ErrAlreadyExists
	}

	listing.AvailableQuantity = listing.AvailableQuantity.Sub(input.Quantity)

	id := uuid.New()
	r.deals[id.String()] = &entity.Deal{
		Id: id, OfferId: input.OfferId, ListingId: input.ListingId,
		BuyerId: input.BuyerId, SellerId: input.SellerId, FinalPrice: input.FinalPrice,
		Quantity: input.Quantity, DeliveryType: input.DeliveryType,
		DeliveryAddress: input.DeliveryAddress, Status: common.DealPending,
		DeliveryDate: input.DeliveryDate, PaymentStatus: common.PaymentPending,
		PlatformFee: input.PlatformFee, TotalAmount: input.TotalAmount,
		Terms: input.Terms, CreatedAt: testNow.Format(time.RFC3339),
	}
	r.dealByOffer[input.OfferId.String()] = id

	return id, nil
}

func (r *fakeDealRepo) GetDealById(_ context.Context, id string) (*entity.Deal, error) {
	d, ok := r.deals[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	c := *d

	return &c, nil
}

func (r *fakeDealRepo) GetUserDeals(_ context.Context, userId string, _ *entity.PaginationInput) ([]entity.Deal, error) {
	out := make([]entity.Deal, 0)
	for _, d := range r.deals {
		if d.BuyerId.String() == userId || d.SellerId.String() == userId {
			out = append(out, *d)
		}
	}

	return out, nil
}

func (r *fakeDealRepo) UpdateDealStatusIfCurrent(_ context.Context, id string, fromStatus, toStatus string) error {
	d, ok := r.deals[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if d.Status != fromStatus {
		return repo_errors.ErrConflict
	}
	d.Status = toStatus

	return nil
}

func (r *fakeDealRepo) UpdateDealPaymentStatus(_ context.Context, id string, paymentStatus string) error {
	d, ok := r.deals[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	d.PaymentStatus = paymentStatus

	return nil
}

type fakeTransportRepo struct {
	requests map[string]*entity.TransportRequest
	quotes   map[string]*entity.TransportQuote
}

func (r *fakeTransportRepo) CreateTransportRequest(_ context.Context, input *entity.CreateTransportRequestInput) (uuid.UUID, error) {
	id := uuid.New()
	r.requests[id.String()] = &entity.TransportRequest{
		Id: id, DealId: input.DealUUID, RequesterId: input.RequesterId,
		PickupLocation: input.PickupLocation, DeliveryLocation: input.DeliveryLocation,
		Quantity: input.Quantity, Unit: input.Unit, PreferredDate: input.PreferredDate,
		Budget: input.Budget, Status: input.Status, PlatformFee: input.PlatformFee,
		LowEstimate: input.LowEstimate, MediumEstimate: input.MediumEstimate,
		HighEstimate: input.HighEstimate, DistanceKm: input.DistanceKm,
		FuelCost: input.FuelCost, LaborCost: input.LaborCost, Overhead: input.Overhead,
		CreatedAt: testNow.Format(time.RFC3339),
	}

	return id, nil
}

func (r *fakeTransportRepo) GetTransportRequestById(_ context.Context, id string) (*entity.TransportRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	c := *req

	return &c, nil
}

func (r *fakeTransportRepo) GetOpenTransportRequests(_ context.Context, _ *entity.PaginationInput) ([]entity.TransportRequest, error) {
	out := make([]entity.TransportRequest, 0)
	for _, req := range r.requests {
		if req.Status == common.RequestOpen || req.Status == common.RequestQuoted {
			out = append(out, *req)
		}
	}

	return out, nil
}

func (r *fakeTransportRepo) GetUserTransportRequests(_ context.Context, requesterId string, _ *entity.PaginationInput) ([]entity.TransportRequest, error) {
	out := make([]entity.TransportRequest, 0)
	for _, req := range r.requests {
		if req.RequesterId.String() == requesterId {
			out = append(out, *req)
		}
	}

	return out, nil
}

func (r *fakeTransportRepo) CreateQuote(_ context.Context, input *entity.CreateTransportQuoteInput) (uuid.UUID, error) {
	requestId, err := uuid.Parse(input.TransportRequestId)
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	r.quotes[id.String()] = &entity.TransportQuote{
		Id: id, TransportRequestId: requestId, TransporterId: input.TransporterId,
		Price: input.Price, EstimatedDays: input.EstimatedDays, VehicleType: input.VehicleType,
		InsuranceIncluded: input.InsuranceIncluded, Status: input.Status,
		BasePrice: input.BasePrice, FuelSurcharge: input.FuelSurcharge,
		TollFees: input.TollFees, InsuranceCost: input.InsuranceCost,
		Total: input.Total, PlatformFee: input.PlatformFee,
		CreatedAt: testNow.Format(time.RFC3339),
	}

	if req, ok := r.requests[input.TransportRequestId]; ok && req.Status == common.RequestOpen {
		req.Status = common.RequestQuoted
	}

	return id, nil
}

func (r *fakeTransportRepo) GetQuoteById(_ context.Context, id string) (*entity.TransportQuote, error) {
	q, ok := r.quotes[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	c := *q

	return &c, nil
}

func (r *fakeTransportRepo) GetRequestQuotes(_ context.Context, requestId string, _ *entity.PaginationInput) ([]entity.TransportQuote, error) {
	out := make([]entity.TransportQuote, 0)
	for _, q := range r.quotes {
		if q.TransportRequestId.String() == requestId {
			out = append(out, *q)
		}
	}

	return out, nil
}

func (r *fakeTransportRepo) AcceptQuoteRejectSiblings(_ context.Context, quoteId string, requestId uuid.UUID) error {
	q, ok := r.quotes[quoteId]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if q.Status != common.QuotePending {
		return repo_errors.ErrConflict
	}

	q.Status = common.QuoteAccepted
	for _, sibling := range r.quotes {
		if sibling.Id != q.Id && sibling.TransportRequestId == requestId && sibling.Status == common.QuotePending {
			sibling.Status = common.QuoteRejected
		}
	}
	if req, ok := r.requests[requestId.String()]; ok {
		req.Status = common.RequestAccepted
	}

	return nil
}

func (r *fakeTransportRepo) RejectQuoteIfPending(_ context.Context, quoteId string) error {
	q, ok := r.quotes[quoteId]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if q.Status != common.QuotePending {
		return repo_errors.ErrConflict
	}
	q.Status = common.QuoteRejected

	return nil
}

type fakeBackloadRepo struct {
	backloads map[string]*entity.Backload
}

func (r *fakeBackloadRepo) CreateBackload(_ context.Context, input *entity.CreateBackloadInput) (uuid.UUID, error) {
	id := uuid.New()
	r.backloads[id.String()] = &entity.Backload{
		Id: id, TransporterId: input.TransporterId, FromLocation: input.FromLocation,
		ToLocation: input.ToLocation, CapacityTons: input.CapacityTons,
		AvailableDate: input.AvailableDate, PriceEstimate: input.PriceEstimate,
		IsActive: true, CreatedAt: testNow.Format(time.RFC3339),
	}

	return id, nil
}

func (r *fakeBackloadRepo) GetBackloadById(_ context.Context, id string) (*entity.Backload, error) {
	b, ok := r.backloads[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	c := *b

	return &c, nil
}

func (r *fakeBackloadRepo) GetActiveBackloads(_ context.Context, _ *entity.PaginationInput) ([]entity.Backload, error) {
	out := make([]entity.Backload, 0)
	for _, b := range r.backloads {
		if b.IsActive {
			out = append(out, *b)
		}
	}

	return out, nil
}

type fakeDiagnosticsRepo struct{}

func (r *fakeDiagnosticsRepo) Ping() error { return nil }

type testEnv struct {
	seller      *entity.User
	buyer       *entity.User
	transporter *entity.User
	hauler      *entity.User

	listings  *fakeListingRepo
	offers    *fakeOfferRepo
	deals     *fakeDealRepo
	transport *fakeTransportRepo

	listingService   *ListingService
	offerService     *OfferService
	dealService      *DealService
	transportService *TransportService
	backloadService  *BackloadService
}

func newTestEnv() *testEnv {
	seller := &entity.User{Id: uuid.New(), Username: "gert", Name: "Gert", Email: "gert@example.com", Role: common.RoleSeller}
	buyer := &entity.User{Id: uuid.New(), Username: "thandi", Name: "Thandi", Email: "thandi@example.com", Role: common.RoleBuyer}
	transporter := &entity.User{Id: uuid.New(), Username: "sipho", Name: "Sipho", Email: "sipho@example.com", Role: common.RoleTransporter}
	hauler := &entity.User{Id: uuid.New(), Username: "johan", Name: "Johan", Email: "johan@example.com", Role: common.RoleTransporter}

	users := &fakeUserRepo{users: map[string]*entity.User{
		seller.Username:      seller,
		buyer.Username:       buyer,
		transporter.Username: transporter,
		hauler.Username:      hauler,
	}}
	listings := &fakeListingRepo{listings: map[string]*entity.Listing{}}
	offers := &fakeOfferRepo{offers: map[string]*entity.Offer{}}
	deals := &fakeDealRepo{
		deals: map[string]*entity.Deal{}, dealByOffer: map[string]uuid.UUID{},
		offerRepo: offers, listingRepo: listings,
	}
	transport := &fakeTransportRepo{requests: map[string]*entity.TransportRequest{}, quotes: map[string]*entity.TransportQuote{}}
	backloads := &fakeBackloadRepo{backloads: map[string]*entity.Backload{}}

	repos := &repo.Repositories{
		Diagnostics: &fakeDiagnosticsRepo{},
		User:        users,
		Listing:     listings,
		Offer:       offers,
		Deal:        deals,
		Transport:   transport,
		Backload:    backloads,
	}

	n := notifier.NewLogNotifier()
	fees := common.DefaultFeeSchedule()

	env := &testEnv{
		seller: seller, buyer: buyer, transporter: transporter, hauler: hauler,
		listings: listings, offers: offers, deals: deals, transport: transport,
		listingService:   NewListingService(repos),
		offerService:     NewOfferService(repos, n, fees),
		dealService:      NewDealService(repos),
		transportService: NewTransportService(repos, n, fees),
		backloadService:  NewBackloadService(repos),
	}
	env.listingService.now = func() time.Time { return testNow }
	env.offerService.now = func() time.Time { return testNow }
	env.transportService.now = func() time.Time { return testNow }

	return env
}

func (e *testEnv) seedListing(price, quantity string) *entity.Listing {
	id := uuid.New()
	l := &entity.Listing{
		Id: id, SellerId: e.seller.Id, Product: "yellow maize", Price: dec(price),
		Currency: "ZAR", Quantity: dec(quantity), AvailableQuantity: dec(quantity),
		Location: "Free State", DeliveryExFarm: true, DeliveryDelivered: true,
		QualityGrade: "A", ExpiresAt: testNow.AddDate(0, 1, 0), IsActive: true,
		CreatedAt: testNow.Format(time.RFC3339),
	}
	e.listings.listings[id.String()] = l

	return l
}

func (e *testEnv) seedOffer(listing *entity.Listing, price, quantity string) *entity.Offer {
	id := uuid.New()
	o := &entity.Offer{
		Id: id, ListingId: listing.Id, BuyerId: e.buyer.Id, SellerId: e.seller.Id,
		Price: dec(price), Quantity: dec(quantity), DeliveryType: common.DeliveryExFarm,
		DeliveryAddress: "Plot 12", Message: "interested", Status: common.OfferPending,
		ExpiresAt: testNow.AddDate(0, 0, common.OfferValidityDays), IsNegotiable: true,
		Terms: "cash on delivery", CreatedAt: testNow.Format(time.RFC3339),
	}
	e.offers.offers[id.String()] = o

	return o
}

func (e *testEnv) seedRequest(requester *entity.User, dealId uuid.NullUUID) *entity.TransportRequest {
	id := uuid.New()
	req := &entity.TransportRequest{
		Id: id, DealId: dealId, RequesterId: requester.Id,
		PickupLocation: "Bethlehem", DeliveryLocation: "Durban",
		Quantity: dec("50"), Unit: "ton", PreferredDate: testNow.AddDate(0, 0, 5),
		Status: common.RequestOpen, PlatformFee: dec("300"),
		LowEstimate: dec("1750"), MediumEstimate: dec("2000"), HighEstimate: dec("2250"),
		DistanceKm: dec("400"), FuelCost: dec("1000"), LaborCost: dec("500"), Overhead: dec("500"),
		CreatedAt: testNow.Format(time.RFC3339),
	}
	e.transport.requests[id.String()] = req

	return req
}
