package types

// Allowed transitions per booking status field. Every mutation to a booking goes
// through one of these tables; anything not listed is rejected.

var bookingNext = map[BookingStatus]map[BookingStatus]bool{
	BOOKING_PENDING:   {BOOKING_CONFIRMED: true, BOOKING_CANCELLED: true},
	BOOKING_CONFIRMED: {BOOKING_IN_RENTAL: true, BOOKING_CANCELLED: true},
	BOOKING_IN_RENTAL: {BOOKING_COMPLETED: true},
	BOOKING_COMPLETED: {},
	BOOKING_CANCELLED: {},
}

var paymentNext = map[PaymentStatus]map[PaymentStatus]bool{
	PAYMENT_UNPAID:   {PAYMENT_PAID: true},
	PAYMENT_PAID:     {PAYMENT_REFUNDED: true},
	PAYMENT_REFUNDED: {},
}

var pickupNext = map[PickupStatus]map[PickupStatus]bool{
	PICKUP_PENDING:   {PICKUP_SCHEDULED: true, PICKUP_COMPLETED: true},
	PICKUP_SCHEDULED: {PICKUP_COMPLETED: true},
	PICKUP_COMPLETED: {},
}

var returnNext = map[ReturnStatus]map[ReturnStatus]bool{
	RETURN_PENDING:   {RETURN_SCHEDULED: true, RETURN_COMPLETED: true, RETURN_LATE: true},
	RETURN_SCHEDULED: {RETURN_COMPLETED: true, RETURN_LATE: true},
	RETURN_LATE:      {RETURN_COMPLETED: true},
	RETURN_COMPLETED: {},
}

var payoutNext = map[PayoutStatus]map[PayoutStatus]bool{
	PAYOUT_PENDING:    {PAYOUT_PROCESSING: true, PAYOUT_COMPLETED: true, PAYOUT_FAILED: true},
	PAYOUT_PROCESSING: {PAYOUT_COMPLETED: true, PAYOUT_FAILED: true},
	PAYOUT_COMPLETED:  {},
	PAYOUT_FAILED:     {},
}

func (s BookingStatus) CanTransition(to BookingStatus) bool {
	return bookingNext[s][to]
}

func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	return paymentNext[s][to]
}

func (s PickupStatus) CanTransition(to PickupStatus) bool {
	return pickupNext[s][to]
}

func (s ReturnStatus) CanTransition(to ReturnStatus) bool {
	return returnNext[s][to]
}

func (s PayoutStatus) CanTransition(to PayoutStatus) bool {
	return payoutNext[s][to]
}
