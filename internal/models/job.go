package models

// FitReasons holds the pro/con summary the workflow attaches to a posting.
type FitReasons struct {
	Pro string `json:"pro"`
	Con string `json:"con"`
}

// JobData is the formatted posting payload stored by the receipt printer
// service for one print job.
type JobData struct {
	URL         string      `json:"url"`
	Status      string      `json:"status"`
	Title       string      `json:"title,omitempty"`
	Company     string      `json:"company,omitempty"`
	Location    string      `json:"location,omitempty"`
	Salary      string      `json:"salary,omitempty"`
	Description string      `json:"description,omitempty"`
	Date        string      `json:"date,omitempty"`
	Rating      string      `json:"rating,omitempty"`
	FitReasons  *FitReasons `json:"fit_reasons,omitempty"`
}

// PrintJob is one entry from the printer service's /jobs listing. The
// upstream API returns a map keyed by job ID; ID is filled in from the key.
type PrintJob struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Error  string   `json:"error,omitempty"`
	Data   *JobData `json:"data,omitempty"`
}

// PrintRequest is the payload accepted by the printer service's /print/job
// endpoint when resubmitting a formatted posting.
type PrintRequest struct {
	Title       string      `json:"title" validate:"required"`
	Company     string      `json:"company" validate:"required"`
	Location    string      `json:"location"`
	Salary      string      `json:"salary"`
	Description string      `json:"description" validate:"required"`
	URL         string      `json:"url"`
	Date        string      `json:"date"`
	Status      string      `json:"status"`
	Rating      string      `json:"rating"`
	FitReasons  *FitReasons `json:"fit_reasons,omitempty"`
}
