package match

import crerr "github.com/cockroachdb/errors"

var (
	// ErrDataIntegrity marks squads that cannot take the field, such as a lineup without a goalkeeper.
	ErrDataIntegrity    = crerr.New("match data integrity violation")
	ErrMatchFinished    = crerr.New("match already finished")
	ErrMatchNotFinished = crerr.New("match not finished")
	ErrMatchNotStarted  = crerr.New("match not started")
)
