package repositories

// CaseproofDbRepository implements the SQL access to the application database
// (cases, jobs, case files, CSV files, events).
type CaseproofDbRepository struct{}

func NewCaseproofDbRepository() *CaseproofDbRepository {
	return &CaseproofDbRepository{}
}
