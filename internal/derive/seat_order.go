package derive

// SeatDisplayOrder maps raw slots to the numbers players see. Seat 1 sits
// immediately clockwise of the dealer slot, so slot 0 shows as 6.
var SeatDisplayOrder = [6]int{6, 1, 2, 3, 4, 5}

// SeatDisplayNumber returns 0 for a slot outside the table.
func SeatDisplayNumber(seatIndex int) int {
	if seatIndex < 0 || seatIndex >= len(SeatDisplayOrder) {
		return 0
	}
	return SeatDisplayOrder[seatIndex]
}
