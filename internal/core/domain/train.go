package domain

type Train struct {
	Number         string  `json:"train_number"`
	Name           string  `json:"name"`
	FromStation    string  `json:"from_station"`
	ToStation      string  `json:"to_station"`
	Fare           float64 `json:"fare"`
	AvailableSeats int     `json:"available_seats"`
}

func (t *Train) HasSeats(count int) bool {
	return count > 0 && count <= t.AvailableSeats
}
