package ports

import "time"

// Clock supplies the current time to use cases that stamp created_at / updated_at.
// github.com/benbjohnson/clock satisfies it in production (clock.New) and tests (clock.NewMock).
type Clock interface {
	Now() time.Time
}
