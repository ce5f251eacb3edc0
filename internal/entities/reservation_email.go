package entities

// ReservationEmailData feeds the customer and owner HTML templates.
type ReservationEmailData struct {
	ReservationID  int64
	CustomerEmail  string
	ServiceType    string
	DateFormatted  string
	Time           string
	PickupAddress  string
	DropoffAirport string
	Passengers     int
	FlightNumber   string
	LuggageCount   int
	Price          int
	Deposit        int
	CurrentYear    int
}

// DigestEmailData feeds the owner's daily digest template.
type DigestEmailData struct {
	DateFormatted string
	Rides         []ReservationEmailData
	TotalPrice    int
	CurrentYear   int
}
