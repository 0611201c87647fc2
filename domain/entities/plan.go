package entities

// Plan modes returned by the generation collaborator. "error" means the
// model judged the input invalid or off-topic and Error carries its message.
const (
	PlanModeTrip  = "trip"
	PlanModeError = "error"
)

// Coordinates is a GPS point attached to an activity
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Activity is a single entry in a day plan
type Activity struct {
	TimeOfDay      string      `json:"timeOfDay" validate:"required,oneof=Morning Afternoon Evening Night"`
	Location       string      `json:"location" validate:"required"`
	Description    string      `json:"description" validate:"required"`
	CostLabel      string      `json:"costLabel" validate:"required,oneof=low mid high"`
	GPSCoordinates Coordinates `json:"gpsCoordinates"`
}

// Meal names a restaurant or dish recommendation
type Meal struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// Restaurants groups the food recommendations for one day
type Restaurants struct {
	Lunch   Meal   `json:"lunch" validate:"required"`
	Dinner  Meal   `json:"dinner" validate:"required"`
	Snacks  []Meal `json:"snacks,omitempty" validate:"omitempty,dive"`
	MustTry []Meal `json:"mustTry,omitempty" validate:"omitempty,dive"`
}

// DayPlan is one day of a generated itinerary
type DayPlan struct {
	Day         int         `json:"day" validate:"required,min=1"`
	Theme       string      `json:"theme" validate:"required"`
	Activities  []Activity  `json:"activities" validate:"required,min=1,dive"`
	Restaurants Restaurants `json:"restaurants"`
}

// Place locates an itinerary stop
type Place struct {
	City          string `json:"city" validate:"required"`
	StateOrRegion string `json:"stateOrRegion"`
	Country       string `json:"country"`
}

// PlaceEntry wraps a Place, matching the collaborator's output shape
type PlaceEntry struct {
	Places Place `json:"places"`
}

// TripPlan is the structured result of a generation request. When Mode is
// "trip" the itinerary fields are populated; when Mode is "error" only
// Error is set.
type TripPlan struct {
	Mode            string       `json:"mode" validate:"required,oneof=trip error"`
	Error           string       `json:"error,omitempty" validate:"required_if=Mode error"`
	TripTitle       string       `json:"tripTitle,omitempty" validate:"required_if=Mode trip"`
	StartingMessage string       `json:"startingMessage,omitempty"`
	Summary         string       `json:"summary,omitempty" validate:"required_if=Mode trip"`
	DailyPlan       []DayPlan    `json:"dailyPlan,omitempty" validate:"required_if=Mode trip,dive"`
	ListOfPlaces    []PlaceEntry `json:"listOfPlaces,omitempty" validate:"required_if=Mode trip,dive"`
	TotalBudget     string       `json:"totalBudget,omitempty" validate:"omitempty,oneof=low mid high"`
}

// IsError reports whether the collaborator declined to produce a trip
func (p *TripPlan) IsError() bool {
	return p.Mode == PlanModeError
}
