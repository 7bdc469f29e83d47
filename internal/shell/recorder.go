package shell

import "github.com/cleared-dev/minibank/internal/auditlog"

// Recorder receives one audit entry per operator operation.
//
//go:generate mockgen -destination=mocks/mock_recorder.go -package=mocks -source=recorder.go Recorder
type Recorder interface {
	Record(e auditlog.Entry) error
}
