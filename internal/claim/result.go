package claim

// Route is a claim routing label.
type Route string

const (
	RouteManualReview    Route = "Manual review"
	RouteInvestigation   Route = "Investigation"
	RouteSpecialistQueue Route = "Specialist queue"
	RouteFastTrack       Route = "Fast-track"
	RouteStandardReview  Route = "Standard review"
)

// Routes lists every route label in decision priority order.
var Routes = []Route{
	RouteManualReview,
	RouteInvestigation,
	RouteSpecialistQueue,
	RouteFastTrack,
	RouteStandardReview,
}

// Decision is a route together with the explanation that selected it.
type Decision struct {
	Route  Route
	Reason string
}

// Result is the per-document output of the pipeline.
type Result struct {
	Source  string   `json:"file"`
	Fields  Fields   `json:"extractedFields"`
	Missing []string `json:"missingFields"`
	Route   Route    `json:"recommendedRoute"`
	Reason  string   `json:"reasoning"`
}

// NewResult assembles a Result, normalizing empty lists so they serialize
// as [] rather than null.
func NewResult(source string, fields Fields, missing []string, d Decision) Result {
	if missing == nil {
		missing = []string{}
	}
	if fields.Inconsistencies == nil {
		fields.Inconsistencies = []string{}
	}
	return Result{
		Source:  source,
		Fields:  fields,
		Missing: missing,
		Route:   d.Route,
		Reason:  d.Reason,
	}
}
