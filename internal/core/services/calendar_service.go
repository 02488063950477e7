package services

// CalendarEntry is one dated event for a home. The calendars are maintained
// by the operations team in a reporting sheet and change a few times a year,
// so they ship as static tables.
type CalendarEntry struct {
	Home string `json:"home"`
	Date string `json:"date"`
	Note string `json:"note,omitempty"`
}

// CalendarService serves the static reference calendars: annual revision
// dates, checkpoint dates and inspection schedules.
type CalendarService struct{}

// NewCalendarService creates the service.
func NewCalendarService() *CalendarService {
	return &CalendarService{}
}

// AnnualRevisions returns the scheduled annual revision date per home.
func (s *CalendarService) AnnualRevisions() []CalendarEntry {
	return annualRevisions
}

// Checkpoints returns the quarterly checkpoint dates per home.
func (s *CalendarService) Checkpoints() []CalendarEntry {
	return checkpoints
}

// Inspections returns the inspection schedule per home.
func (s *CalendarService) Inspections() []CalendarEntry {
	return inspections
}

var annualRevisions = []CalendarEntry{
	{Home: "Casa Saona", Date: "2026-01-12"},
	{Home: "Son Parc", Date: "2026-02-09"},
	{Home: "Son Parc II", Date: "2026-02-10"},
	{Home: "Cap Martinet", Date: "2026-03-02"},
	{Home: "Es Vedra", Date: "2026-03-16"},
	{Home: "Sa Punta", Date: "2026-04-06"},
	{Home: "La Mola", Date: "2026-04-20"},
	{Home: "Valldemossa", Date: "2026-05-04"},
}

var checkpoints = []CalendarEntry{
	{Home: "Casa Saona", Date: "2025-10-06", Note: "Q4"},
	{Home: "Son Parc", Date: "2025-10-13", Note: "Q4"},
	{Home: "Son Parc II", Date: "2025-10-14", Note: "Q4"},
	{Home: "Cap Martinet", Date: "2025-10-20", Note: "Q4"},
	{Home: "Es Vedra", Date: "2025-11-03", Note: "Q4"},
	{Home: "Sa Punta", Date: "2025-11-10", Note: "Q4"},
	{Home: "La Mola", Date: "2025-11-17", Note: "Q4"},
	{Home: "Valldemossa", Date: "2025-11-24", Note: "Q4"},
}

var inspections = []CalendarEntry{
	{Home: "Casa Saona", Date: "2025-09-15", Note: "pool and terrace"},
	{Home: "Son Parc", Date: "2025-09-22", Note: "full property"},
	{Home: "Son Parc II", Date: "2025-09-23", Note: "full property"},
	{Home: "Cap Martinet", Date: "2025-09-29", Note: "HVAC"},
	{Home: "Es Vedra", Date: "2025-10-06", Note: "full property"},
	{Home: "Sa Punta", Date: "2025-10-13", Note: "garden and exterior"},
	{Home: "La Mola", Date: "2025-10-20", Note: "full property"},
	{Home: "Valldemossa", Date: "2025-10-27", Note: "full property"},
}
