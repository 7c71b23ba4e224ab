package service

import "errors"

var (
	ErrUserNotFound             = errors.New("user with given username not found")
	ErrListingNotFound          = errors.New("listing not found")
	ErrOfferNotFound            = errors.New("offer not found")
	ErrDealNotFound             = errors.New("deal not found")
	ErrTransportRequestNotFound = errors.New("transport request not found")
	ErrQuoteNotFound            = errors.New("transport quote not found")

	ErrNotASeller      = errors.New("only sellers can manage listings")
	ErrNotABuyer       = errors.New("only buyers can create offers")
	ErrNotATransporter = errors.New("only transporters can perform this action")

	ErrUserHasNoAccessToListing = errors.New("user doesn't have sufficient rights to access the listing")
	ErrUserHasNoAccessToOffer   = errors.New("user doesn't have sufficient rights to access the offer")
	ErrUserHasNoAccessToDeal    = errors.New("user isn't a party to the deal")
	ErrUserHasNoAccessToRequest = errors.New("user doesn't have sufficient rights to access the transport request")

	ErrListingNotActive        = errors.New("listing is inactive or expired")
	ErrOwnListingOffer         = errors.New("attempt to make an offer on own listing")
	ErrInsufficientQuantity    = errors.New("offered quantity exceeds the listing's available quantity")
	ErrDeliveryTypeUnavailable = errors.New("listing doesn't support the requested delivery type")
	ErrInvalidPrice            = errors.New("price must be greater than zero")
	ErrInvalidQuantity         = errors.New("quantity must be greater than zero")

	ErrOfferNotOpen           = errors.New("offer is in a terminal state")
	ErrOfferExpired           = errors.New("offer has expired")
	ErrCounterMessageRequired = errors.New("counter-offer message can't be empty")
	ErrNoActiveCounter        = errors.New("offer has no counter-offer to respond to")
	ErrDealAlreadyExists      = errors.New("a deal already exists for this offer")

	ErrInvalidDealTransition = errors.New("deal can't move to the requested status")

	ErrRequestNotOpen         = errors.New("transport request is no longer taking quotes")
	ErrRequestAlreadyAccepted = errors.New("transport request already has an accepted quote")
	ErrRequesterCanNotQuote   = errors.New("requester can't quote their own transport request")
	ErrQuoteNotPending        = errors.New("transport quote is not pending")
)
