package database

type ObituaryRepository interface {
	UpsertObituary(record Obituary) error
	UpsertObituaries(records []Obituary) (int, error)
	GetObituary(recordID string) (*Obituary, error)
	GetObituaryCount() (int, error)
	GetCountBySource(source string) (int, error)
}

type SourceStatusRepository interface {
	RecordSuccess(source string, itemCount int) error
	RecordFailure(source string, reason string) error
	GetAll() ([]SourceStatus, error)
}
