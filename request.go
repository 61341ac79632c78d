package visitfacts

import "strings"

const (
	DatasetPatients = "patients"
	DatasetVisits   = "hospital_visits"
	DatasetDoctors  = "doctors"
)

// Dataset names one input table and where to fetch it from. Location is a
// share link, an http(s) URL, a file:// URL or a local path.
type Dataset struct {
	Name     string
	Location string
}

// Request is the input of one run.
type Request struct {
	Patients Dataset
	Visits   Dataset
	Doctors  Dataset
}

func NewRequest(patientsURL, visitsURL, doctorsURL string) *Request {
	return &Request{
		Patients: Dataset{Name: DatasetPatients, Location: patientsURL},
		Visits:   Dataset{Name: DatasetVisits, Location: visitsURL},
		Doctors:  Dataset{Name: DatasetDoctors, Location: doctorsURL},
	}
}

// Datasets returns the inputs in fetch order.
func (r *Request) Datasets() []Dataset {
	return []Dataset{r.Patients, r.Visits, r.Doctors}
}

func (r *Request) Validate() error {
	seen := make(map[string]bool, 3)
	for _, ds := range r.Datasets() {
		if strings.TrimSpace(ds.Name) == "" {
			return NewValidationError("name", "dataset name is required")
		}
		if seen[ds.Name] {
			return NewValidationError("name", "dataset "+ds.Name+" is listed twice")
		}
		seen[ds.Name] = true
		if strings.TrimSpace(ds.Location) == "" {
			return NewValidationError(ds.Name, "location is required")
		}
	}
	return nil
}
